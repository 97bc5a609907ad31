package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrConversion indicates Markdown to HTML conversion failed.
var ErrConversion = errors.New("markdown conversion failed")

// Renderer abstracts Markdown to HTML conversion.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// GoldmarkRenderer converts Markdown to an HTML fragment using goldmark (pure Go).
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// renderConfig collects GoldmarkRenderer options.
type renderConfig struct {
	inlineStyle string
	inline      bool
	unsafe      bool
}

// RendererOption configures a GoldmarkRenderer.
type RendererOption func(*renderConfig)

// WithInlineHighlighting colors fenced code at render time using the given
// chroma style, instead of leaving language-* blocks for a later pass.
func WithInlineHighlighting(style string) RendererOption {
	return func(c *renderConfig) {
		c.inline = true
		c.inlineStyle = style
	}
}

// WithUnsafeHTML passes raw HTML in the Markdown source through to the output.
func WithUnsafeHTML() RendererOption {
	return func(c *renderConfig) {
		c.unsafe = true
	}
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions.
func NewGoldmarkRenderer(opts ...RendererOption) *GoldmarkRenderer {
	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	extensions := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if cfg.inline {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.inlineStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	rendererOpts := []renderer.Option{html.WithXHTML()}
	if cfg.unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Anchors for URL fragments
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkRenderer{md: md}
}

// Render converts Markdown to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrConversion, ctx.Err())
	case res := <-done:
		return res.html, res.err
	}
}
