package article

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/alnah/go-mdarticle/internal/fetch"
	"github.com/alnah/go-mdarticle/internal/pipeline"
)

// fallbackPrefix starts the message attached when the document cannot be
// retrieved. The wording is part of the page contract and is kept verbatim.
const fallbackPrefix = "Oops, cannot load content for the moment...<br>Try refersh or "

// FallbackHTML returns the message attached in place of a document that
// could not be retrieved, with a link to ref opening in a new tab.
func FallbackHTML(ref string) string {
	return fallbackPrefix + `<a href="` + html.EscapeString(ref) + `" target="_blank">click</a>`
}

// Loader fetches Markdown documents, renders them, and attaches the result
// to a page. Create with NewLoader. A Loader is safe for concurrent use when
// its page is.
type Loader struct {
	page     Page
	fetcher  Fetcher
	renderer Renderer
	logger   *slog.Logger
	timeout  time.Duration
	seq      *sequencer
}

// NewLoader creates a Loader writing into page.
// Use options to customize behavior (e.g., WithFetcher, WithSequencedWrites).
func NewLoader(page Page, opts ...Option) *Loader {
	l := &Loader{
		page:     page,
		fetcher:  fetch.NewClient(),
		renderer: pipeline.NewGoldmarkRenderer(),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Page returns the page the Loader writes into.
func (l *Loader) Page() Page {
	return l.page
}

// Article retrieves the raw text at url.
func (l *Loader) Article(ctx context.Context, url string) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.fetcher.Fetch(ctx, url)
}

// Render converts Markdown to an HTML fragment. Every failure matches
// ErrConversion, whichever Renderer produced it.
func (l *Loader) Render(ctx context.Context, markdown string) (string, error) {
	out, err := l.renderer.Render(ctx, markdown)
	if err != nil && !errors.Is(err, ErrConversion) {
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return out, err
}

// Attach replaces the content of t and returns a handle to it.
func (l *Loader) Attach(t Target, content string) (Target, error) {
	return l.page.Attach(t, content)
}

// Read loads the document at url into hooks.Content.
//
// The pipeline is fetch, Parse, render, Preprocess, attach, Highlight, then
// the URL fragment captured at the start is assigned again so the page
// scrolls back to it. If the document cannot be retrieved the fallback
// message linking to fallbackRef is attached and Read returns nil.
// Rendering and attach failures are returned as is.
func (l *Loader) Read(ctx context.Context, url, fallbackRef string, hooks Hooks) error {
	if err := hooks.validate(); err != nil {
		return err
	}

	hash := l.page.Hash()
	token := l.seq.begin(hooks.Content)
	logger := l.logger.With("url", url)

	markdown, ok, err := l.fetchOrFallback(ctx, url, fallbackRef, hooks.Content, token)
	if err != nil || !ok {
		return err
	}

	markdown = hooks.Parse(markdown)

	rendered, err := l.Render(ctx, markdown)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", url, err)
	}

	rendered = hooks.Preprocess(rendered)

	written, err := l.attach(hooks.Content, rendered, token)
	if err != nil {
		return fmt.Errorf("attaching %s: %w", url, err)
	}
	if !written {
		logger.Info("discarded superseded content", "target", hooks.Content.TargetID())
		return nil
	}

	if err := hooks.Highlight(); err != nil {
		return fmt.Errorf("highlighting %s: %w", url, err)
	}

	if hash != "" {
		if err := l.page.SetHash(hash); err != nil {
			return fmt.Errorf("restoring %s: %w", hash, err)
		}
	}

	logger.Debug("article loaded", "bytes", len(rendered), "hash", hash)
	return nil
}

// fetchOrFallback is the only recovery point of Read: a retrieval failure
// attaches the fallback message and reports ok=false with a nil error.
// Errors from later stages are never routed here.
func (l *Loader) fetchOrFallback(ctx context.Context, url, fallbackRef string, content Target, token uint64) (string, bool, error) {
	markdown, err := l.Article(ctx, url)
	if err == nil {
		return markdown, true, nil
	}

	l.logger.Warn("article unavailable, attaching fallback", "url", url, "error", err)

	if _, err := l.attach(content, FallbackHTML(fallbackRef), token); err != nil {
		return "", false, fmt.Errorf("attaching fallback: %w", err)
	}
	return "", false, nil
}

// attach writes through the sequencer when one is configured.
func (l *Loader) attach(t Target, content string, token uint64) (bool, error) {
	return l.seq.write(t, token, func() error {
		_, err := l.page.Attach(t, content)
		return err
	})
}

// Package-level shortcuts using default collaborators.

// Render converts Markdown to an HTML fragment with the default renderer.
func Render(ctx context.Context, markdown string) (string, error) {
	return pipeline.NewGoldmarkRenderer().Render(ctx, markdown)
}

// Article retrieves the raw text at url with the default fetcher.
func Article(ctx context.Context, url string) (string, error) {
	return fetch.NewClient().Fetch(ctx, url)
}

// Attach replaces the content of t in s.
func Attach(s Sink, t Target, content string) (Target, error) {
	return s.Attach(t, content)
}

// Read loads the document at url into hooks.Content of page with a default
// Loader.
func Read(ctx context.Context, page Page, url, fallbackRef string, hooks Hooks) error {
	return NewLoader(page).Read(ctx, url, fallbackRef, hooks)
}
