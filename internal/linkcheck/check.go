package linkcheck

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// MinContentLength is the visible text length below which a page is treated
// as script-rendered and handed to the browser, when one is configured.
const MinContentLength = 200

// Result is the outcome of checking one resource.
type Result struct {
	ResourceID string        `json:"resource_id"`
	URL        string        `json:"url"`
	FinalURL   string        `json:"final_url,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Title      string        `json:"title,omitempty"`
	Rendered   bool          `json:"rendered,omitempty"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Checker checks resource links concurrently.
type Checker struct {
	client      *http.Client
	userAgent   string
	concurrency int
	renderer    Renderer
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) { ch.client = c }
}

// WithConcurrency sets how many links are checked at once.
func WithConcurrency(n int) Option {
	return func(ch *Checker) {
		if n > 0 {
			ch.concurrency = n
		}
	}
}

// WithRenderer enables the browser fallback for thin pages.
func WithRenderer(r Renderer) Option {
	return func(ch *Checker) { ch.renderer = r }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(ch *Checker) { ch.userAgent = ua }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		client:      &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check checks every resource and returns the results sorted by resource
// ID. Individual failures are reported in the results, not as an error;
// the error is non-nil only if ctx is cancelled.
func (c *Checker) Check(ctx context.Context, resources []types.ResourceLink) ([]Result, error) {
	results := make([]Result, len(resources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, res := range resources {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = c.checkOne(gCtx, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ResourceID < results[j].ResourceID })
	return results, nil
}

func (c *Checker) checkOne(ctx context.Context, res types.ResourceLink) Result {
	start := time.Now()
	log := observability.LoggerFromContext(ctx).With("resource_id", res.ID, "url", res.URL)
	r := Result{ResourceID: res.ID, URL: res.URL}

	page, err := fetchPage(ctx, c.client, res.URL, c.userAgent)
	if page != nil {
		r.FinalURL = page.URL
		r.StatusCode = page.StatusCode
	}
	if err != nil {
		r.Error = err.Error()
		log.Debug("link check failed", "error", err)
		return finish(r, start)
	}

	title, textLen, err := pageSummary(page.HTML)
	if err != nil {
		r.Error = err.Error()
		return finish(r, start)
	}

	if c.renderer != nil && (title == "" || textLen < MinContentLength) {
		html, rerr := c.renderer.Render(ctx, page.URL)
		if rerr != nil {
			log.Warn("browser fallback failed", "error", rerr)
		} else if rt, _, perr := pageSummary(html); perr == nil {
			r.Rendered = true
			if rt != "" {
				title = rt
			}
		}
	}

	r.Title = title
	r.OK = true
	return finish(r, start)
}

func finish(r Result, start time.Time) Result {
	r.Duration = time.Since(start)
	return r
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
