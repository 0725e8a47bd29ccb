package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tmerrors "github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/httputil"
	"github.com/matzehuels/trackermeta/pkg/observability"
)

func TestNewClient(t *testing.T) {
	client := NewClient(0, map[string]string{"X-Test": "1"})

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil || client.http.Timeout != DefaultTimeout {
		t.Errorf("NewClient() http client = %+v, want default timeout", client.http)
	}
	if client.headers["User-Agent"] != DefaultUserAgent() {
		t.Error("NewClient() should set a User-Agent")
	}
	if client.headers["X-Test"] != "1" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientOverridesUserAgent(t *testing.T) {
	client := NewClient(time.Second, map[string]string{"User-Agent": "custom"})
	if client.headers["User-Agent"] != "custom" {
		t.Errorf("User-Agent = %q, want custom", client.headers["User-Agent"])
	}
}

func TestClientGet(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<modarchive/>"))
	}))
	defer server.Close()

	client := NewClient(time.Second, nil)
	client.http = server.Client()

	body, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != "<modarchive/>" {
		t.Errorf("Get() = %q", body)
	}
	if gotUA != DefaultUserAgent() {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent())
	}
}

func TestClientBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Query().Get("body")))
	}))
	defer server.Close()

	client := NewClient(time.Second, nil)
	client.http = server.Client()
	client.maxBody = 8

	body, err := client.Get(context.Background(), server.URL+"?body=SCRMSCRM")
	if err != nil || string(body) != "SCRMSCRM" {
		t.Fatalf("Get() at limit = %q, %v", body, err)
	}

	body, err = client.Get(context.Background(), server.URL+"?body=SCRMSCRMX")
	if !tmerrors.Is(err, tmerrors.ErrCodeNetwork) {
		t.Fatalf("Get() over limit error = %v, want NETWORK_ERROR", err)
	}
	if body != nil {
		t.Errorf("Get() over limit returned %d bytes, want none", len(body))
	}
	if httputil.IsRetryable(err) {
		t.Error("oversized body should not be retried")
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  tmerrors.Code
		retryable bool
	}{
		{http.StatusUnauthorized, tmerrors.ErrCodeUnauthorized, false},
		{http.StatusForbidden, tmerrors.ErrCodeUnauthorized, false},
		{http.StatusBadRequest, tmerrors.ErrCodeBadRequest, false},
		{http.StatusNotFound, tmerrors.ErrCodeNotFound, false},
		{http.StatusTooManyRequests, tmerrors.ErrCodeRateLimited, true},
		{http.StatusInternalServerError, tmerrors.ErrCodeNetwork, true},
		{http.StatusBadGateway, tmerrors.ErrCodeNetwork, true},
		{http.StatusTeapot, tmerrors.ErrCodeNetwork, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(time.Second, nil)
			client.http = server.Client()

			_, err := client.Get(context.Background(), server.URL)
			if !tmerrors.Is(err, tt.wantCode) {
				t.Errorf("Get() error = %v, want %s", err, tt.wantCode)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(time.Second, nil)
	client.http = server.Client()

	_, err := client.Get(context.Background(), server.URL)
	var rl *tmerrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("Get() error = %v, want RateLimitedError", err)
	}
	if rl.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", rl.RetryAfter)
	}
}

func TestClientNetworkErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/xml-tools.php?key=secret123"
	server.Close()

	client := NewClient(time.Second, nil)
	_, err := client.Get(context.Background(), url)
	if !httputil.IsRetryable(err) {
		t.Fatalf("Get() error = %v, want retryable", err)
	}
	if !tmerrors.Is(err, tmerrors.ErrCodeNetwork) {
		t.Errorf("Get() code = %v, want NETWORK_ERROR", tmerrors.GetCode(err))
	}
	if strings.Contains(err.Error(), "secret123") {
		t.Errorf("error leaks api key: %v", err)
	}
}

func TestClientCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(time.Second, nil)
	client.http = server.Client()

	_, err := client.Get(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if httputil.IsRetryable(err) {
		t.Error("cancellation must not be retryable")
	}
}

func TestClientReportsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(time.Second, nil)
	client.http = server.Client()
	if _, err := client.Get(context.Background(), server.URL+"/index.php"); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if h.requests != 1 || h.responses != 1 || h.lastStatus != http.StatusOK {
		t.Errorf("hooks = %+v", h)
	}
	if h.lastPath != "/index.php" {
		t.Errorf("path = %q, want /index.php", h.lastPath)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{
			"https://modarchive.org/data/xml-tools.php?key=abc&query=1",
			"https://modarchive.org/data/xml-tools.php?key=REDACTED&query=1",
		},
		{
			"https://modarchive.org/index.php?query=1",
			"https://modarchive.org/index.php?query=1",
		},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransportFunc(t *testing.T) {
	var tr Transport = TransportFunc(func(_ context.Context, url string) ([]byte, error) {
		return []byte(url), nil
	})
	got, err := tr.Get(context.Background(), "x")
	if err != nil || string(got) != "x" {
		t.Errorf("TransportFunc.Get() = %q, %v", got, err)
	}
}

type recordingHooks struct {
	requests, responses int
	lastStatus          int
	lastPath            string
}

func (h *recordingHooks) OnRequest(_ context.Context, _, _, path string) {
	h.requests++
	h.lastPath = path
}
func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.lastStatus = status
}
func (h *recordingHooks) OnError(context.Context, string, string, string, error) {}
