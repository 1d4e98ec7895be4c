// Package linkcheck verifies that the resource catalog's links still resolve
// to live pages.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; UnemploymentNavigator/1.0; +link-check)"

// maxBodyBytes caps how much of a page is read.
const maxBodyBytes = 2 << 20

// Page holds the fetched content of a URL.
type Page struct {
	URL        string // final URL after redirects
	HTML       string
	StatusCode int
}

// Error represents an error while fetching a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// fetchPage GETs urlStr. A non-2xx status returns the page along with an
// error.
func fetchPage(ctx context.Context, client *http.Client, urlStr, userAgent string) (*Page, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:        resp.Request.URL.String(),
		HTML:       string(body),
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// pageSummary returns the page title (falling back to the first heading) and
// the length of its visible text.
func pageSummary(html string) (title string, textLen int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = cleanWhitespace(doc.Find("title").First().Text())
	if title == "" {
		title = cleanWhitespace(doc.Find("h1").First().Text())
	}
	if title == "" {
		if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			title = cleanWhitespace(content)
		}
	}

	doc.Find("script, style, noscript").Remove()
	textLen = len(cleanWhitespace(doc.Find("body").Text()))
	return title, textLen, nil
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
