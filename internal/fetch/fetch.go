// Package fetch retrieves raw document text over HTTP(S) or from local files.
//
// Any failure to obtain text is reported as ErrRetrieval, optionally joined
// with a more specific sentinel (status, size, content type). Callers are not
// expected to distinguish between them beyond logging.
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

	"github.com/gabriel-vasile/mimetype"
)

// Sentinel errors for retrieval.
var (
	ErrRetrieval         = errors.New("cannot retrieve document")
	ErrStatus            = errors.New("unexpected response status")
	ErrNotText           = errors.New("response is not text")
	ErrTooLarge          = errors.New("response exceeds maximum size")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrInvalidURL        = errors.New("invalid document URL")
)

// DefaultMaxBytes limits the size of a fetched document (4MB).
const DefaultMaxBytes int64 = 4 << 20

// Request header values sent with every HTTP retrieval.
const (
	headerContentType  = "text/plain"
	headerCacheControl = "no-cache"
)

// Fetcher retrieves the full text of a document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Client fetches documents over HTTP(S), and from disk for file:// URLs.
// Relative URLs are resolved against the base URL when one is configured.
type Client struct {
	http      *http.Client
	base      *url.URL
	maxBytes  int64
	origin    string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the URL relative document URLs are resolved against.
func WithBaseURL(u *url.URL) Option {
	return func(cl *Client) {
		cl.base = u
	}
}

// WithMaxBytes sets the maximum accepted body size.
func WithMaxBytes(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxBytes = n
		}
	}
}

// WithOrigin sends an Origin header, for servers that gate on CORS.
func WithOrigin(origin string) Option {
	return func(cl *Client) {
		cl.origin = origin
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client. Without options requests never time out,
// matching a browser fetch.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Fetcher = (*Client)(nil)

// Fetch returns the document body as text.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := c.Resolve(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	var body []byte
	switch u.Scheme {
	case "http", "https":
		body, err = c.fetchHTTP(ctx, u)
	case "file":
		body, err = c.fetchFile(ctx, u)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRetrieval, u.Redacted(), err)
	}

	if !isText(body) {
		return "", fmt.Errorf("%w: %s: %w (%s)", ErrRetrieval, u.Redacted(), ErrNotText, mimetype.Detect(body).String())
	}

	return string(body), nil
}

// Resolve turns rawURL into an absolute URL using the base URL.
func (c *Client) Resolve(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if !u.IsAbs() {
		if c.base == nil {
			return nil, fmt.Errorf("%w: relative URL %q without base URL", ErrInvalidURL, rawURL)
		}
		u = c.base.ResolveReference(u)
	}

	return u, nil
}

func (c *Client) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", headerContentType)
	req.Header.Set("Cache-Control", headerCacheControl)
	req.Header.Set("Pragma", headerCacheControl)
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	return readLimited(resp.Body, c.maxBytes)
}

func (c *Client) fetchFile(ctx context.Context, u *url.URL) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.FromSlash(u.Path)) // #nosec G304 -- user-provided document path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLimited(f, c.maxBytes)
}

// readLimited reads at most max bytes, failing when the source is larger.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return body, nil
}

// isText reports whether the sniffed content type is textual.
// An empty body counts as text.
func isText(body []byte) bool {
	for m := mimetype.Detect(body); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
