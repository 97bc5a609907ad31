package article

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdarticle/internal/highlight"
	"github.com/alnah/go-mdarticle/internal/pipeline"
)

// Highlighter colors code blocks with chroma.
type Highlighter = highlight.Highlighter

// DefaultHighlightStyle is the chroma style of NewHighlighter("").
const DefaultHighlightStyle = highlight.DefaultStyle

// NewHighlighter creates a Highlighter for a chroma style name.
// An empty style selects the default one.
func NewHighlighter(style string) (*Highlighter, error) {
	if style == "" {
		return highlight.New()
	}
	return highlight.New(highlight.WithStyle(style))
}

// HighlightStyles lists the available chroma style names.
func HighlightStyles() []string {
	return highlight.Styles()
}

// treeUpdater is implemented by pages whose regions can be edited as an
// HTML tree.
type treeUpdater interface {
	Update(t Target, fn func(*html.Node) error) error
}

// HookOptions configures DefaultHooks.
type HookOptions struct {
	// Content is the region the document is attached to.
	Content Target

	// DocumentURL is the URL the Markdown is fetched from. Relative links
	// and images are resolved against it. Empty leaves them unchanged.
	DocumentURL string

	// Highlighter colors code blocks after attach. Nil disables coloring.
	Highlighter *Highlighter
}

// DefaultHooks returns hooks that normalize the Markdown and turn ==text==
// into <mark>, resolve relative URLs against the document URL, and color
// code blocks of the attached content.
func DefaultHooks(page Page, opts HookOptions) Hooks {
	return Hooks{
		Parse:      pipeline.PrepareMarkdown,
		Preprocess: preprocessor(opts.DocumentURL),
		Highlight:  highlighter(page, opts.Content, opts.Highlighter),
		Content:    opts.Content,
	}
}

// preprocessor returns the Preprocess hook for a document URL.
func preprocessor(documentURL string) func(string) string {
	return func(s string) string {
		s = pipeline.ConvertMarkPlaceholders(s)
		rewritten, err := pipeline.RewriteRelativeURLs(s, documentURL)
		if err != nil {
			return s
		}
		return rewritten
	}
}

// highlighter returns the Highlight hook coloring the content region.
func highlighter(page Page, content Target, h *Highlighter) func() error {
	if h == nil {
		return func() error { return nil }
	}
	return func() error {
		updater, ok := page.(treeUpdater)
		if !ok {
			return fmt.Errorf("%w: page %T cannot be edited", ErrHighlight, page)
		}
		return updater.Update(content, func(n *html.Node) error {
			_, err := h.HighlightTree(n)
			return err
		})
	}
}
