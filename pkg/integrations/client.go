package integrations

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/httputil"
	"github.com/matzehuels/trackermeta/pkg/observability"
)

// Client is the net/http [Transport]. It applies default headers, maps
// status codes onto error codes and reports every request to the
// registered [observability.HTTPHooks].
//
// A Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
	logger  *log.Logger
	maxBody int64
}

// NewClient creates a Client with the given per-request timeout and default
// headers. Pass nil for headers if no default headers are needed; a
// User-Agent is always set.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	h := map[string]string{"User-Agent": DefaultUserAgent()}
	for k, v := range headers {
		h[k] = v
	}
	return &Client{
		http:    NewHTTPClient(timeout),
		headers: h,
		maxBody: MaxBodySize,
		logger:  log.Default(),
	}
}

// WithLogger returns a copy of c logging request lines to l.
func (c *Client) WithLogger(l *log.Logger) *Client {
	cp := *c
	if l != nil {
		cp.logger = l
	}
	return &cp
}

// Get performs an HTTP GET request and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	// One byte past the cap tells a full body from a cut one.
	data, err := io.ReadAll(io.LimitReader(body, c.maxBody+1))
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, redactErr(err), "read body"))
	}
	if int64(len(data)) > c.maxBody {
		return nil, errors.New(errors.ErrCodeNetwork, "response body exceeds %d bytes", c.maxBody)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, redactErr(err), "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		c.logger.Debug("http get failed", "url", Redact(rawURL), "err", redactErr(err))
		return nil, classifyTransport(ctx, err)
	}
	took := time.Since(start)
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, took)
	c.logger.Debug("http get", "url", Redact(rawURL), "status", resp.StatusCode, "took", took.Round(time.Millisecond))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func classifyTransport(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	err = redactErr(err)
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "request timed out"))
	}
	return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request failed"))
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "archive refused credentials (status %d)", code)
	case code == http.StatusBadRequest:
		return errors.New(errors.ErrCodeBadRequest, "archive rejected request (status %d)", code)
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found (status %d)", code)
	case code == http.StatusTooManyRequests:
		rl := &errors.RateLimitedError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
		return httputil.Retryable(errors.Wrap(errors.ErrCodeRateLimited, rl, "status %d", code))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "server error (status %d)", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

func retryAfter(v string) int {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return int(d.Seconds())
		}
	}
	return 0
}
