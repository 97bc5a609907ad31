//go:build integration

package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func openTestPage(t *testing.T, hash string) *BrowserPage {
	t.Helper()

	page, err := NewPage(PageOptions{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	bp, err := acquireBrowser(t).OpenHTML(ctx, page.String(), hash)
	if err != nil {
		t.Fatalf("OpenHTML() error = %v", err)
	}
	t.Cleanup(func() { _ = bp.Close() })
	return bp
}

func TestBrowserPage_Read(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# Setup\n\n```go\nfunc main() {}\n```\n\n![logo](img/logo.png)\n")
	}))
	t.Cleanup(srv.Close)

	hl, err := NewHighlighter("")
	if err != nil {
		t.Fatal(err)
	}

	bp := openTestPage(t, "#setup")
	docURL := srv.URL + "/docs/guide.md"
	hooks := DefaultHooks(bp, HookOptions{
		Content:     ID(DefaultContentID),
		DocumentURL: docURL,
		Highlighter: hl,
	})

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := Read(ctx, bp, docURL, docURL, hooks); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	html, err := bp.HTML()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`id="setup"`,
		`class="chroma"`,
		srv.URL + "/docs/img/logo.png",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if got := bp.Hash(); got != "#setup" {
		t.Errorf("Hash() = %q, want %q", got, "#setup")
	}
}

func TestBrowserPage_ReadFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	bp := openTestPage(t, "")
	hooks := DefaultHooks(bp, HookOptions{Content: ID(DefaultContentID)})

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	ref := srv.URL + "/missing.md"
	if err := Read(ctx, bp, ref, ref, hooks); err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}

	html, err := bp.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Oops, cannot load content for the moment...") {
		t.Error("fallback message not attached")
	}
}

func TestBrowserPage_UnknownTarget(t *testing.T) {
	t.Parallel()

	bp := openTestPage(t, "")

	_, err := bp.Attach(ID("missing"), "<p>x</p>")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Attach() error = %v, want ErrTargetNotFound", err)
	}
}

func TestBrowserPage_AttachHandle(t *testing.T) {
	t.Parallel()

	bp := openTestPage(t, "")

	handle, err := bp.Attach(ID(DefaultContentID), "<p>first</p>")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bp.Attach(handle, "<p>second</p>"); err != nil {
		t.Fatalf("Attach(handle) error = %v", err)
	}

	html, err := bp.HTML()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "first") || !strings.Contains(html, "<p>second</p>") {
		t.Errorf("content not replaced: %s", html)
	}
}
