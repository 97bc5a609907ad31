package article

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-mdarticle/internal/dom"
)

// Target identifies the page region content is attached to: an ID resolved
// at attach time, or a handle returned by a previous Attach.
type Target = dom.Target

// ID is a Target resolved by element id.
type ID = dom.ID

// Node is an element handle of a Document.
type Node = dom.Node

// Document is an in-memory HTML page usable as a Page.
type Document = dom.Document

// Fetcher retrieves the raw text of a document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Renderer converts Markdown to an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Sink replaces the content of page regions.
type Sink interface {
	// Attach replaces the whole content of t with content and returns a
	// handle to the region.
	Attach(t Target, content string) (Target, error)
}

// Location exposes the URL fragment of a page.
type Location interface {
	// Hash returns the fragment with its leading "#", or "" when there is none.
	Hash() string
	SetHash(hash string) error
}

// Page is a Sink with a location. Both *Document and *BrowserPage are Pages.
type Page interface {
	Sink
	Location
}

// Compile-time interface checks.
var (
	_ Page = (*Document)(nil)
	_ Page = (*BrowserPage)(nil)
)

// Hooks are the per-call collaborators of Read. Every field is required.
type Hooks struct {
	// Parse transforms the fetched Markdown before rendering.
	Parse func(markdown string) string

	// Preprocess transforms the rendered HTML before it is attached.
	Preprocess func(html string) string

	// Highlight runs once, after the content is attached.
	Highlight func() error

	// Content is the region the document is attached to.
	Content Target
}

// validate reports the first missing hook.
func (h Hooks) validate() error {
	switch {
	case h.Parse == nil:
		return fmt.Errorf("%w: Parse", ErrMissingHook)
	case h.Preprocess == nil:
		return fmt.Errorf("%w: Preprocess", ErrMissingHook)
	case h.Highlight == nil:
		return fmt.Errorf("%w: Highlight", ErrMissingHook)
	case h.Content == nil:
		return fmt.Errorf("%w: Content", ErrMissingHook)
	}
	return nil
}

// Option configures a Loader.
type Option func(*Loader)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(r Renderer) Option {
	return func(l *Loader) {
		l.renderer = r
	}
}

// WithLogger sets the logger. Loaders log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithTimeout bounds the retrieval stage of each Read.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("article: WithTimeout duration must be positive")
	}
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithSequencedWrites makes concurrent Reads into the same target keep the
// output of the most recently started call. Writes of superseded calls are
// discarded. Without it the last call to attach wins.
func WithSequencedWrites() Option {
	return func(l *Loader) {
		l.seq = newSequencer()
	}
}
