// Package highlight colors code blocks of rendered HTML with chroma.
//
// It works like a client-side colorer run after content is attached: it
// scans a subtree for <pre><code class="language-xxx"> blocks and replaces
// their text with class-annotated token spans. Blocks that were already
// colored, or whose language is unknown, are left untouched.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// chromaClass marks a <pre> whose code has been colored.
const chromaClass = "chroma"

// Sentinel errors for highlighting.
var (
	ErrUnknownStyle = errors.New("unknown highlight style")
	ErrHighlight    = errors.New("highlighting failed")
)

// Highlighter colors code blocks in HTML trees.
// A Highlighter is safe for concurrent use once created.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	lexers    map[string]chroma.Lexer
}

// Option configures a Highlighter.
type Option func(*Highlighter) error

// WithStyle selects a chroma style by name.
func WithStyle(name string) Option {
	return func(h *Highlighter) error {
		style, ok := styles.Registry[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
		}
		h.style = style
		return nil
	}
}

// WithLexer registers a lexer for a language name, taking precedence over
// chroma's registry.
func WithLexer(language string, lexer chroma.Lexer) Option {
	return func(h *Highlighter) error {
		h.lexers[strings.ToLower(language)] = chroma.Coalesce(lexer)
		return nil
	}
}

// New creates a Highlighter. The bundled Lua lexer is registered by default.
func New(opts ...Option) (*Highlighter, error) {
	h := &Highlighter{
		style: styles.Get(DefaultStyle),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		lexers: map[string]chroma.Lexer{
			"lua": chroma.Coalesce(Lua),
		},
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Styles returns the names of the available styles, sorted.
func Styles() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

// WriteCSS writes the stylesheet matching the class names emitted by the
// Highlighter.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// HighlightTree colors every uncolored code block below root and returns the
// number of blocks colored.
func (h *Highlighter) HighlightTree(root *html.Node) (int, error) {
	var blocks []*html.Node
	collectCodeBlocks(root, &blocks)

	count := 0
	for _, code := range blocks {
		ok, err := h.highlightBlock(code)
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// HighlightHTML colors the code blocks of an HTML fragment.
func (h *Highlighter) HighlightHTML(fragment string) (string, int, error) {
	container := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	count, err := h.HighlightTree(container)
	if err != nil {
		return "", count, err
	}

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", count, fmt.Errorf("%w: %v", ErrHighlight, err)
		}
	}
	return buf.String(), count, nil
}

// lexer returns the lexer for a language, or nil when none is known.
func (h *Highlighter) lexer(language string) chroma.Lexer {
	language = strings.ToLower(language)
	if l, ok := h.lexers[language]; ok {
		return l
	}
	if l := lexers.Get(language); l != nil {
		return chroma.Coalesce(l)
	}
	return nil
}

// highlightBlock replaces the text of a <code> element with token spans.
// Reports false when the block was skipped.
func (h *Highlighter) highlightBlock(code *html.Node) (bool, error) {
	pre := code.Parent
	if hasClass(pre, chromaClass) {
		return false, nil
	}

	language := languageOf(code)
	if language == "" {
		language = languageOf(pre)
	}
	if language == "" {
		return false, nil
	}

	lexer := h.lexer(language)
	if lexer == nil {
		return false, nil
	}

	iterator, err := lexer.Tokenise(nil, textContent(code))
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrHighlight, language, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrHighlight, language, err)
	}

	tokens, err := html.ParseFragment(&buf, code)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrHighlight, language, err)
	}

	for c := code.FirstChild; c != nil; {
		next := c.NextSibling
		code.RemoveChild(c)
		c = next
	}
	for _, t := range tokens {
		code.AppendChild(t)
	}
	addClass(pre, chromaClass)
	return true, nil
}

// collectCodeBlocks gathers <code> elements that are direct children of <pre>.
func collectCodeBlocks(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Code &&
		n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.DataAtom == atom.Pre {
		*out = append(*out, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectCodeBlocks(c, out)
	}
}

// languageOf extracts xxx from a language-xxx or lang-xxx class.
func languageOf(n *html.Node) string {
	for _, class := range classes(n) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok && lang != "" {
			return lang
		}
		if lang, ok := strings.CutPrefix(class, "lang-"); ok && lang != "" {
			return lang
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(classes(n), class)
}

func addClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
