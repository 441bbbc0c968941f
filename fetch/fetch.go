// Package fetch retrieves schedule PDFs and ranking pages from the league
// website.
//
// A team's schedule PDF is linked from its group page as the first anchor
// that follows a table. [Client.ScheduleURL] finds that link and
// [Client.Download] stores the PDF. Ranking pages are served in legacy
// charsets; [Client.Document] returns them decoded to UTF-8.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/kiefholz/ligaplan/format"
)

// DefaultBaseURL is the league website.
const DefaultBaseURL = "https://bvbb-badminton.liga.nu"

const userAgent = "ligaplan/1.0"

// ErrNoScheduleLink is returned when a group page has no schedule link.
var ErrNoScheduleLink = errors.New("no schedule link on group page")

// ErrNotHTML is returned by [Client.Document] for replies of another
// known format, such as a PDF.
var ErrNotHTML = errors.New("not an HTML document")

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

// Client fetches documents over HTTP.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the timeout of each request (default: 60s). A client
// passed to WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.client
			hc.Timeout = d
			c.client = &hc
		}
	}
}

// WithBaseURL sets the URL relative schedule links are resolved against.
// Empty resolves against the group page itself.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client.
func New(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: 60 * time.Second},
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET request and returns the response of a 200 reply. The
// caller closes the body.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return resp, nil
}

// Download stores the body of rawURL at path and returns the number of bytes
// written. The file only appears once the download is complete.
func (c *Client) Download(ctx context.Context, rawURL, path string) (int64, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("storing download: %w", err)
	}
	return n, nil
}

// Document returns the HTML at rawURL decoded to UTF-8, honoring the
// charset of the Content-Type header and meta tags.
func (c *Client) Document(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if f := format.FromContentType(ct); f != format.HTML && f != format.Unknown {
		return nil, fmt.Errorf("%s: %w: got %s", rawURL, ErrNotHTML, f)
	}
	r, err := charset.NewReader(resp.Body, ct)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

// ScheduleURL returns the absolute URL of the schedule PDF linked from a
// group page: the first a element following a table.
func (c *Client) ScheduleURL(ctx context.Context, groupURL string) (string, error) {
	resp, err := c.get(ctx, groupURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", groupURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", groupURL, err)
	}

	href, ok := doc.Find("table ~ a").First().Attr("href")
	if !ok || href == "" {
		return "", fmt.Errorf("%s: %w", groupURL, ErrNoScheduleLink)
	}

	base := c.baseURL
	if base == "" {
		base = groupURL
	}
	return resolve(base, href)
}

func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
