package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativeURLs resolves relative image and link URLs in an HTML
// fragment against the URL the Markdown was fetched from, so that they keep
// working once the fragment is attached to a page served from elsewhere.
// If documentURL is empty or not absolute, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]: relative image references
//   - a[href]: relative links (not in-page anchors)
//
// Does NOT rewrite:
//   - absolute URLs, protocol-relative URLs, data:, mailto: and other schemes
//   - srcset attributes
//   - file:// results that would escape the document's directory
func RewriteRelativeURLs(htmlContent, documentURL string) (string, error) {
	if documentURL == "" {
		return htmlContent, nil
	}

	base, err := url.Parse(documentURL)
	if err != nil {
		return "", err
	}
	if !base.IsAbs() {
		return htmlContent, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	}
	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), context)
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		rewriteNode(n, base)
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the tree and rewrites relative URLs.
func rewriteNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", base)
		case atom.A:
			rewriteAttr(n, "href", base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

// rewriteAttr rewrites a single attribute if it holds a relative reference.
func rewriteAttr(n *html.Node, attrName string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativeReference(attr.Val) {
			continue
		}

		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue // Leave unparsable references alone
		}

		resolved := base.ResolveReference(ref)
		if resolved.Scheme == "file" && !isPathUnderDir(resolved.Path, path.Dir(base.Path)) {
			continue
		}

		n.Attr[i].Val = resolved.String()
	}
}

// isRelativeReference returns true if the reference should be resolved.
func isRelativeReference(ref string) bool {
	if ref == "" {
		return false
	}

	// In-page anchors stay relative to the hosting page
	if strings.HasPrefix(ref, "#") {
		return false
	}

	// Protocol-relative and root-relative references belong to the host
	if strings.HasPrefix(ref, "/") {
		return false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}

// isPathUnderDir checks if p is inside dir (prevents path traversal).
func isPathUnderDir(p, dir string) bool {
	cleanPath := path.Clean(p)
	cleanDir := path.Clean(dir)

	if !strings.HasSuffix(cleanDir, "/") {
		cleanDir += "/"
	}

	return strings.HasPrefix(cleanPath+"/", cleanDir)
}
