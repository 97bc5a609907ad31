package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetch_HTTP(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_, _ = w.Write([]byte("# Title\n\nBody"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithOrigin("https://docs.example.com"), WithUserAgent("article-test"))
	got, err := c.Fetch(context.Background(), srv.URL+"/doc.md")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "# Title\n\nBody" {
		t.Errorf("Fetch() = %q", got)
	}

	gotHeaders := <-headers
	wantHeaders := map[string]string{
		"Content-Type":  "text/plain",
		"Cache-Control": "no-cache",
		"Pragma":        "no-cache",
		"Origin":        "https://docs.example.com",
		"User-Agent":    "article-test",
	}
	for k, v := range wantHeaders {
		if gotHeaders.Get(k) != v {
			t.Errorf("header %s = %q, want %q", k, gotHeaders.Get(k), v)
		}
	}
}

func TestFetch_Failures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.md":
			http.NotFound(w, r)
		case "/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		case "/image.png":
			_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		case "/big.md":
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name     string
		url      string
		opts     []Option
		wantErrs []error
	}{
		{
			name:     "not found",
			url:      srv.URL + "/missing.md",
			wantErrs: []error{ErrRetrieval, ErrStatus},
		},
		{
			name:     "server error",
			url:      srv.URL + "/broken.md",
			wantErrs: []error{ErrRetrieval, ErrStatus},
		},
		{
			name:     "binary body",
			url:      srv.URL + "/image.png",
			wantErrs: []error{ErrRetrieval, ErrNotText},
		},
		{
			name:     "body over limit",
			url:      srv.URL + "/big.md",
			opts:     []Option{WithMaxBytes(16)},
			wantErrs: []error{ErrRetrieval, ErrTooLarge},
		},
		{
			name:     "relative URL without base",
			url:      "doc.md",
			wantErrs: []error{ErrRetrieval, ErrInvalidURL},
		},
		{
			name:     "empty URL",
			url:      "",
			wantErrs: []error{ErrRetrieval, ErrInvalidURL},
		},
		{
			name:     "unsupported scheme",
			url:      "ftp://example.com/doc.md",
			wantErrs: []error{ErrRetrieval, ErrUnsupportedScheme},
		},
		{
			name:     "connection refused",
			url:      "http://127.0.0.1:1/doc.md",
			wantErrs: []error{ErrRetrieval},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClient(tt.opts...)
			got, err := c.Fetch(context.Background(), tt.url)
			if err == nil {
				t.Fatalf("Fetch() = %q, want error", got)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("Fetch() error = %v, want errors.Is %v", err, want)
				}
			}
		})
	}
}

func TestFetch_RelativeURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/docs/")
	if err != nil {
		t.Fatal(err)
	}

	c := NewClient(WithBaseURL(base))
	got, err := c.Fetch(context.Background(), "guide/intro.md")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "/docs/guide/intro.md" {
		t.Errorf("Fetch() = %q, want /docs/guide/intro.md", got)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient().Fetch(ctx, srv.URL+"/slow.md")
	if !errors.Is(err, ErrRetrieval) {
		t.Errorf("Fetch() error = %v, want ErrRetrieval", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Fetch() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestFetch_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("local *doc*"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewClient()
	fileURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()

	got, err := c.Fetch(context.Background(), fileURL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "local *doc*" {
		t.Errorf("Fetch() = %q", got)
	}

	_, err = c.Fetch(context.Background(), fileURL+".missing")
	if !errors.Is(err, ErrRetrieval) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Fetch(missing) error = %v, want ErrRetrieval and os.ErrNotExist", err)
	}
}

func TestIsText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []byte
		want bool
	}{
		{name: "empty", body: nil, want: true},
		{name: "markdown", body: []byte("# Title\n\n- item"), want: true},
		{name: "html comment first", body: []byte("<!-- note -->\n# Title"), want: true},
		{name: "utf-8", body: []byte("Café ☕ naïve"), want: true},
		{name: "png", body: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: false},
		{name: "zip", body: []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isText(tt.body); got != tt.want {
				t.Errorf("isText(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
