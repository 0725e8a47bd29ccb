package modarchive

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trackermeta/pkg/anchor"
	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/extract"
	"github.com/matzehuels/trackermeta/pkg/httputil"
	"github.com/matzehuels/trackermeta/pkg/integrations"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
	"github.com/matzehuels/trackermeta/pkg/normalize"
	"github.com/matzehuels/trackermeta/pkg/observability"
)

// Archive endpoints.
const (
	DefaultAPIBase      = "https://modarchive.org/data/xml-tools.php"
	DefaultSiteBase     = "https://modarchive.org/index.php"
	DefaultDownloadBase = modinfo.DownloadBase
)

// Endpoints holds the base URLs the resolver talks to. Empty fields fall
// back to the defaults.
type Endpoints struct {
	API      string `toml:"api"`
	Site     string `toml:"site"`
	Download string `toml:"download"`
}

// DefaultEndpoints returns the public archive endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{API: DefaultAPIBase, Site: DefaultSiteBase, Download: DefaultDownloadBase}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.API == "" {
		e.API = d.API
	}
	if e.Site == "" {
		e.Site = d.Site
	}
	if e.Download == "" {
		e.Download = d.Download
	}
	return e
}

func (e Endpoints) validate() error {
	for _, u := range []string{e.API, e.Site, e.Download} {
		if err := errors.ValidateURL(u); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "endpoint %q", u)
		}
	}
	return nil
}

// Options configures a [Resolver]. The zero value scrapes the public pages
// with compiled anchors and the default retry policy.
type Options struct {
	APIKey    string                 // XML API key; selects XML unless Kind says otherwise
	Kind      string                 // "html", "xml" or "" to decide by APIKey
	Anchors   anchor.Set             // HTML anchors (zero value = compiled defaults)
	Endpoints Endpoints              // Base URLs (empty fields = public archive)
	Retry     httputil.Policy        // Retry policy (zero value = httputil.DefaultPolicy)
	Transport integrations.Transport // HTTP transport (nil = integrations.Client)
	Timeout   time.Duration          // Per-request timeout for the default transport
	UserAgent string                 // User-Agent for the default transport
	Logger    *log.Logger            // Logger (nil = log.Default())
	Now       func() time.Time       // Clock for FetchedAt (nil = time.Now)
}

// Resolver fetches and converts archive documents.
type Resolver struct {
	transport integrations.Transport
	extractor extract.Extractor
	apiKey    string
	anchors   anchor.Set
	endpoints Endpoints
	policy    httputil.Policy
	logger    *log.Logger
	now       func() time.Time
}

// New builds a Resolver from opts. It fails with a CONFIG error when the
// anchors or endpoints are invalid, or when XML is forced without a key.
func New(opts Options) (*Resolver, error) {
	kind, err := selectKind(opts.Kind, opts.APIKey)
	if err != nil {
		return nil, err
	}

	anchors := opts.Anchors
	if anchors == (anchor.Set{}) {
		anchors = anchor.Defaults()
	}
	if err := anchors.Validate(); err != nil {
		return nil, err
	}

	endpoints := opts.Endpoints.withDefaults()
	if err := endpoints.validate(); err != nil {
		return nil, err
	}

	policy := opts.Retry
	if policy == (httputil.Policy{}) {
		policy = httputil.DefaultPolicy()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	transport := opts.Transport
	if transport == nil {
		var headers map[string]string
		if opts.UserAgent != "" {
			headers = map[string]string{"User-Agent": opts.UserAgent}
		}
		transport = integrations.NewClient(opts.Timeout, headers).WithLogger(logger)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Resolver{
		transport: transport,
		extractor: extract.For(kind),
		apiKey:    strings.TrimSpace(opts.APIKey),
		anchors:   anchors,
		endpoints: endpoints,
		policy:    policy,
		logger:    logger,
		now:       now,
	}, nil
}

func selectKind(name, key string) (extract.Kind, error) {
	hasKey := strings.TrimSpace(key) != ""
	if strings.TrimSpace(name) == "" {
		if hasKey {
			return extract.XML, nil
		}
		return extract.HTML, nil
	}
	kind, err := extract.ParseKind(name)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfig, err, "document kind")
	}
	if kind == extract.XML && !hasKey {
		return 0, errors.New(errors.ErrCodeConfig, "the xml api needs an api key")
	}
	return kind, nil
}

// Kind reports the document generation in use.
func (r *Resolver) Kind() extract.Kind { return r.extractor.Kind() }

// Anchors returns the anchor set used for HTML pages.
func (r *Resolver) Anchors() anchor.Set { return r.anchors }

// Policy returns the retry policy.
func (r *Resolver) Policy() httputil.Policy { return r.policy }

// WithRetry returns a copy of r using p. The receiver is not modified.
func (r *Resolver) WithRetry(p httputil.Policy) *Resolver {
	cp := *r
	cp.policy = p
	return &cp
}

// Get resolves the metadata of module id.
func (r *Resolver) Get(ctx context.Context, id uint32) (*modinfo.Record, error) {
	if err := errors.ValidateModuleID(id); err != nil {
		return nil, err
	}
	target := strconv.FormatUint(uint64(id), 10)
	u := r.moduleURL(target)

	var rec modinfo.Record
	err := r.do(ctx, "get", target, func() error {
		body, err := r.transport.Get(ctx, u)
		if err != nil {
			return err
		}
		raw, err := r.extractor.Module(body, r.anchors)
		if err != nil {
			return err
		}
		rec, err = normalize.Record(raw, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get module %d: %w", id, err)
	}

	rec.FetchedAt = r.now().UTC()
	for _, w := range rec.Warnings {
		r.logger.Warn("soft field skipped", "module", id, "warning", w)
	}
	return &rec, nil
}

// ResolveFilename searches the archive for modules whose filename matches
// query and returns up to [extract.MaxCandidates] candidates in archive
// order. A blank query returns an empty slice without contacting the
// archive; no matches is an empty slice, not an error.
func (r *Resolver) ResolveFilename(ctx context.Context, query string) ([]modinfo.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []modinfo.Candidate{}, nil
	}
	if err := errors.ValidateQuery(query); err != nil {
		return nil, err
	}
	u := r.searchURL(query)

	var out []modinfo.Candidate
	err := r.do(ctx, "search", query, func() error {
		body, err := r.transport.Get(ctx, u)
		if err != nil {
			return err
		}
		raw, err := r.extractor.Search(body)
		if err != nil {
			return err
		}
		out, err = normalize.Candidates(raw)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(out) > extract.MaxCandidates {
		out = out[:extract.MaxCandidates]
	}
	return out, nil
}

// RequestCount returns how many API requests the configured key has used.
// It needs an API key.
func (r *Resolver) RequestCount(ctx context.Context) (uint64, error) {
	if r.apiKey == "" {
		return 0, errors.New(errors.ErrCodeUnauthorized, "request count needs an api key")
	}
	u := r.apiURL(url.Values{"request": {"view_requests"}})

	var n uint64
	err := r.do(ctx, "requests", "", func() error {
		body, err := r.transport.Get(ctx, u)
		if err != nil {
			return err
		}
		raw, err := extract.XMLExtractor{}.RequestCount(body)
		if err != nil {
			return err
		}
		n, err = normalize.Count("requests", raw)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("request count: %w", err)
	}
	return n, nil
}

// Download fetches the file of module id. An empty response is reported as
// NOT_FOUND.
func (r *Resolver) Download(ctx context.Context, id uint32) ([]byte, error) {
	if err := errors.ValidateModuleID(id); err != nil {
		return nil, err
	}
	target := strconv.FormatUint(uint64(id), 10)
	u := r.endpoints.Download + "?" + url.Values{"moduleid": {target}}.Encode()

	var data []byte
	err := r.do(ctx, "download", target, func() error {
		body, err := r.transport.Get(ctx, u)
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return errors.New(errors.ErrCodeNotFound, "archive returned no file")
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download module %d: %w", id, err)
	}
	return data, nil
}

// do runs one logical request under the retry policy and reports it to the
// logger and the resolve hooks.
func (r *Resolver) do(ctx context.Context, op, target string, fn func() error) error {
	logger := r.logger.With("op", op, "op_id", uuid.NewString()[:8])
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, op, target)
	logger.Debug("resolve", "target", target, "kind", r.Kind())

	start := time.Now()
	attempts := 0
	err := httputil.RetryNotify(ctx, r.policy, func() error {
		attempts++
		return fn()
	}, func(attempt int, delay time.Duration, err error) {
		logger.Warn("attempt failed, retrying", "target", target, "attempt", attempt, "wait", delay, "err", err)
		hooks.OnRetry(ctx, op, target, attempt, delay, err)
	})
	took := time.Since(start)
	hooks.OnResolveComplete(ctx, op, target, attempts, took, err)

	if err != nil {
		logger.Debug("resolve failed", "target", target, "attempts", attempts, "code", errors.GetCode(err), "field", errors.FieldOf(err), "err", err)
		return err
	}
	logger.Debug("resolved", "target", target, "attempts", attempts, "took", took.Round(time.Millisecond))
	return nil
}

func (r *Resolver) moduleURL(id string) string {
	if r.Kind() == extract.XML {
		return r.apiURL(url.Values{"request": {"view_by_moduleid"}, "query": {id}})
	}
	return r.endpoints.Site + "?" + url.Values{"request": {"view_by_moduleid"}, "query": {id}}.Encode()
}

func (r *Resolver) searchURL(query string) string {
	if r.Kind() == extract.XML {
		return r.apiURL(url.Values{"request": {"search"}, "type": {"filename"}, "query": {query}})
	}
	return r.endpoints.Site + "?" + url.Values{
		"request":     {"search"},
		"query":       {query},
		"submit":      {"Find"},
		"search_type": {"filename"},
	}.Encode()
}

func (r *Resolver) apiURL(v url.Values) string {
	v.Set("key", r.apiKey)
	return r.endpoints.API + "?" + v.Encode()
}
