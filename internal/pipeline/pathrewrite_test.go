package pipeline

import (
	"strings"
	"testing"
)

func TestRewriteRelativeURLs(t *testing.T) {
	t.Parallel()

	const docURL = "https://example.com/docs/guide/intro.md"

	tests := []struct {
		name         string
		html         string
		documentURL  string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative image",
			html:         `<p><img src="images/logo.png" alt="logo"/></p>`,
			documentURL:  docURL,
			wantContains: []string{`src="https://example.com/docs/guide/images/logo.png"`},
		},
		{
			name:         "dot slash image",
			html:         `<img src="./a.png"/>`,
			documentURL:  docURL,
			wantContains: []string{`src="https://example.com/docs/guide/a.png"`},
		},
		{
			name:         "parent link",
			html:         `<a href="../api.md">API</a>`,
			documentURL:  docURL,
			wantContains: []string{`href="https://example.com/docs/api.md"`},
		},
		{
			name:         "anchor unchanged",
			html:         `<a href="#install">Install</a>`,
			documentURL:  docURL,
			wantContains: []string{`href="#install"`},
		},
		{
			name:         "absolute URL unchanged",
			html:         `<a href="https://other.org/x">x</a>`,
			documentURL:  docURL,
			wantContains: []string{`href="https://other.org/x"`},
		},
		{
			name:         "root relative unchanged",
			html:         `<img src="/static/a.png"/>`,
			documentURL:  docURL,
			wantContains: []string{`src="/static/a.png"`},
		},
		{
			name:         "mailto unchanged",
			html:         `<a href="mailto:me@example.com">me</a>`,
			documentURL:  docURL,
			wantContains: []string{`href="mailto:me@example.com"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,AAAA"/>`,
			documentURL:  docURL,
			wantContains: []string{`src="data:image/png;base64,AAAA"`},
		},
		{
			name:         "empty document URL returns input",
			html:         `<img src="a.png">`,
			documentURL:  "",
			wantContains: []string{`<img src="a.png">`},
		},
		{
			name:         "relative document URL returns input",
			html:         `<img src="a.png">`,
			documentURL:  "docs/intro.md",
			wantContains: []string{`<img src="a.png">`},
		},
		{
			name:         "file URL inside directory",
			html:         `<img src="img/a.png"/>`,
			documentURL:  "file:///srv/docs/intro.md",
			wantContains: []string{`src="file:///srv/docs/img/a.png"`},
		},
		{
			name:         "file URL traversal left alone",
			html:         `<img src="../../etc/passwd"/>`,
			documentURL:  "file:///srv/docs/intro.md",
			wantContains: []string{`src="../../etc/passwd"`},
			wantExcludes: []string{"file:///etc"},
		},
		{
			name:         "nested elements",
			html:         `<ul><li><a href="x.md">x</a></li></ul><table><tr><td><img src="t.png"/></td></tr></table>`,
			documentURL:  docURL,
			wantContains: []string{`href="https://example.com/docs/guide/x.md"`, `src="https://example.com/docs/guide/t.png"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativeURLs(tt.html, tt.documentURL)
			if err != nil {
				t.Fatalf("RewriteRelativeURLs() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativeURLs() missing %q in %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("RewriteRelativeURLs() should not contain %q in %s", exclude, got)
				}
			}
		})
	}
}

func TestIsRelativeReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want bool
	}{
		{"", false},
		{"#top", false},
		{"/abs", false},
		{"//cdn.example.com/x.js", false},
		{"https://example.com", false},
		{"javascript:alert(1)", false},
		{"img.png", true},
		{"./img.png", true},
		{"../img.png", true},
		{"page.md#section", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()

			if got := isRelativeReference(tt.ref); got != tt.want {
				t.Errorf("isRelativeReference(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}
