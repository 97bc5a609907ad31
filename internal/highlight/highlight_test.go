package highlight

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "known style", opts: []Option{WithStyle("monokai")}},
		{name: "style name is case insensitive", opts: []Option{WithStyle("Monokai")}},
		{name: "unknown style", opts: []Option{WithStyle("no-such-style")}, wantErr: ErrUnknownStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := New(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if h == nil {
				t.Fatal("New() returned nil highlighter")
			}
		})
	}
}

func TestHighlighter_HighlightHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		fragment     string
		wantCount    int
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "lua block colored with bundled lexer",
			fragment:     `<pre><code class="language-lua">local x = 1</code></pre>`,
			wantCount:    1,
			wantContains: []string{`<pre class="chroma">`, `<span class="k">local</span>`},
		},
		{
			name:         "go block colored with chroma registry",
			fragment:     `<pre><code class="language-go">func main() {}</code></pre>`,
			wantCount:    1,
			wantContains: []string{`<pre class="chroma">`, `<span class="kd">func</span>`},
		},
		{
			name:         "language on pre",
			fragment:     `<pre class="language-lua"><code>return nil</code></pre>`,
			wantCount:    1,
			wantContains: []string{`<pre class="language-lua chroma">`},
		},
		{
			name:         "no language left alone",
			fragment:     `<pre><code>plain</code></pre>`,
			wantCount:    0,
			wantContains: []string{`<pre><code>plain</code></pre>`},
		},
		{
			name:         "unknown language left alone",
			fragment:     `<pre><code class="language-nope-lang">x</code></pre>`,
			wantCount:    0,
			wantExcludes: []string{"chroma"},
		},
		{
			name:         "inline code ignored",
			fragment:     `<p><code class="language-lua">local</code></p>`,
			wantCount:    0,
			wantExcludes: []string{"chroma"},
		},
		{
			name:         "already colored block skipped",
			fragment:     `<pre class="chroma"><code class="language-lua">local x</code></pre>`,
			wantCount:    0,
			wantContains: []string{`<code class="language-lua">local x</code>`},
		},
		{
			name: "several blocks",
			fragment: `<pre><code class="language-lua">a()</code></pre>` +
				`<p>between</p>` +
				`<pre><code class="language-lua">b()</code></pre>`,
			wantCount:    2,
			wantContains: []string{"<p>between</p>"},
		},
		{
			name:         "entities in code are escaped again",
			fragment:     `<pre><code class="language-lua">if a &lt; b then end</code></pre>`,
			wantCount:    1,
			wantContains: []string{"&lt;"},
		},
	}

	h, err := New()
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, count, err := h.HighlightHTML(tt.fragment)
			if err != nil {
				t.Fatalf("HighlightHTML() error = %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("HighlightHTML() count = %d, want %d", count, tt.wantCount)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("HighlightHTML() missing %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("HighlightHTML() should not contain %q in:\n%s", exclude, got)
				}
			}
		})
	}
}

func TestHighlighter_SecondPassIsNoop(t *testing.T) {
	t.Parallel()

	h, err := New()
	if err != nil {
		t.Fatal(err)
	}

	first, n, err := h.HighlightHTML(`<pre><code class="language-lua">print(1)</code></pre>`)
	if err != nil || n != 1 {
		t.Fatalf("first pass: n=%d err=%v", n, err)
	}

	second, n, err := h.HighlightHTML(first)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second pass count = %d, want 0", n)
	}
	if first != second {
		t.Errorf("second pass changed output:\n%s\nvs\n%s", first, second)
	}
}

func TestHighlighter_WithLexerOverrides(t *testing.T) {
	t.Parallel()

	h, err := New(WithLexer("moon", Lua))
	if err != nil {
		t.Fatal(err)
	}

	got, n, err := h.HighlightHTML(`<pre><code class="language-moon">local y</code></pre>`)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || !strings.Contains(got, `<span class="k">local</span>`) {
		t.Errorf("custom lexer not used: n=%d\n%s", n, got)
	}
}

func TestHighlighter_WriteCSS(t *testing.T) {
	t.Parallel()

	h, err := New(WithStyle("github"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := h.WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS() error = %v", err)
	}
	css := buf.String()
	for _, want := range []string{".chroma", ".k "} {
		if !strings.Contains(css, want) {
			t.Errorf("WriteCSS() missing %q", want)
		}
	}
}

func TestStyles(t *testing.T) {
	t.Parallel()

	names := Styles()
	if len(names) == 0 {
		t.Fatal("Styles() returned no names")
	}
	found := false
	for _, n := range names {
		if n == DefaultStyle {
			found = true
		}
	}
	if !found {
		t.Errorf("Styles() does not include %q", DefaultStyle)
	}
}
