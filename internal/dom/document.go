// Package dom provides an in-memory HTML page that content can be attached to.
//
// A Document plays the role a browser window plays for client-side article
// loading: it owns the element tree, resolves element ids, replaces element
// content (innerHTML semantics), and tracks the URL fragment together with
// the element the fragment currently points at.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Sentinel errors for document operations.
var (
	ErrTargetNotFound = errors.New("target element not found")
	ErrForeignNode    = errors.New("node belongs to another document")
	ErrNilTarget      = errors.New("target cannot be nil")
	ErrParse          = errors.New("failed to parse HTML")
)

// Target identifies a region of a page. It is either an ID, resolved when
// content is attached, or a handle returned by a previous attach.
type Target interface {
	// TargetID returns the element id the target refers to.
	// Handles return the id attribute of their element, which may be empty.
	TargetID() string
}

// ID is an element identifier resolved with a getElementById-style lookup.
type ID string

// TargetID implements Target.
func (id ID) TargetID() string { return string(id) }

// Node is a handle to an element of a Document.
type Node struct {
	doc *Document
	n   *html.Node
}

// TargetID implements Target.
func (n *Node) TargetID() string {
	return attr(n.n, "id")
}

// ElementKey identifies the element behind the handle. Handles resolved
// separately for the same element have equal keys.
func (n *Node) ElementKey() any {
	return n.n
}

// Tag returns the element name.
func (n *Node) Tag() string {
	return n.n.Data
}

// Document is a parsed HTML page with a location.
// All methods are safe for concurrent use.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	location url.URL
	target   *html.Node // element matched by the fragment, nil when none
}

// Parse reads an HTML page. location is the page URL; its fragment becomes
// the initial hash.
func Parse(r io.Reader, location string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: location %q: %v", ErrParse, location, err)
	}

	d := &Document{root: root, location: *u}
	d.target = d.findByID(u.Fragment)
	return d, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(page, location string) (*Document, error) {
	return Parse(strings.NewReader(page), location)
}

// ElementByID returns a handle to the element with the given id.
func (d *Document) ElementByID(id string) (*Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolve(ID(id))
}

// Resolve turns a target into a handle of this document.
func (d *Document) Resolve(t Target) (*Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolve(t)
}

func (d *Document) resolve(t Target) (*Node, error) {
	switch v := t.(type) {
	case nil:
		return nil, ErrNilTarget
	case *Node:
		if v == nil {
			return nil, ErrNilTarget
		}
		if v.doc != d {
			return nil, ErrForeignNode
		}
		return v, nil
	}

	id := t.TargetID()
	n := d.findByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrTargetNotFound, id)
	}
	return &Node{doc: d, n: n}, nil
}

// Attach replaces the content of the target element with the given HTML
// and returns the element handle (a *Node).
//
// When the element the URL fragment points at is part of the replaced
// content, the fragment no longer has a target until the hash is set again.
func (d *Document) Attach(t Target, content string) (Target, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	node, err := d.resolve(t)
	if err != nil {
		return nil, err
	}

	children, err := html.ParseFragment(strings.NewReader(content), node.n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if d.target != nil && isDescendant(d.target, node.n) {
		d.target = nil
	}

	removeChildren(node.n)
	for _, c := range children {
		node.n.AppendChild(c)
	}

	return node, nil
}

// Update runs fn on the target element while holding the document lock.
// fn may restructure the element's children.
func (d *Document) Update(t Target, fn func(*html.Node) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	node, err := d.resolve(t)
	if err != nil {
		return err
	}
	return fn(node.n)
}

// InnerHTML renders the content of the target element.
func (d *Document) InnerHTML(t Target) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	node, err := d.resolve(t)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for c := node.n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Hash returns the URL fragment including the leading "#",
// or an empty string when the location has no fragment.
func (d *Document) Hash() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.location.Fragment == "" {
		return ""
	}
	return "#" + d.location.Fragment
}

// SetHash assigns the URL fragment and points it at the matching element.
func (d *Document) SetHash(hash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.location.Fragment = strings.TrimPrefix(hash, "#")
	d.target = d.findByID(d.location.Fragment)
	return nil
}

// Location returns the page URL including its fragment.
func (d *Document) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location.String()
}

// FragmentTarget returns the element the fragment points at, or nil.
func (d *Document) FragmentTarget() *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.target == nil {
		return nil
	}
	return &Node{doc: d, n: d.target}
}

// Render writes the whole page.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the whole page, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// findByID walks the tree in document order. Callers hold d.mu.
func (d *Document) findByID(id string) *html.Node {
	if id == "" {
		return nil
	}

	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// isDescendant reports whether n is a strict descendant of ancestor.
func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
