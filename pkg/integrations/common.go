package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/trackermeta/pkg/buildinfo"
)

// DefaultTimeout bounds every single HTTP request.
const DefaultTimeout = 10 * time.Second

// MaxBodySize caps response bodies. Module files are small; a larger body
// is rejected rather than truncated.
const MaxBodySize = 64 << 20

// Transport fetches the body of a URL. Implementations return errors from
// [github.com/matzehuels/trackermeta/pkg/errors] so callers can tell
// refusals from transient failures; transient failures are wrapped in
// [httputil.RetryableError].
//
// [httputil.RetryableError]: github.com/matzehuels/trackermeta/pkg/httputil.RetryableError
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, url string) ([]byte, error)

// Get calls f.
func (f TransportFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// DefaultUserAgent identifies the client to the archive.
func DefaultUserAgent() string { return buildinfo.UserAgent() }

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A zero timeout means [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// secretParams are query parameters masked by [Redact].
var secretParams = []string{"key"}

// Redact masks API keys in rawURL so it can be logged.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactErr rewrites the URL inside a *url.Error so the key never reaches
// an error message.
func redactErr(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: Redact(ue.URL), Err: ue.Err}
	}
	return err
}
