package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdarticle/internal/dom"
	"github.com/alnah/go-mdarticle/internal/fileutil"
	"github.com/alnah/go-mdarticle/internal/process"
)

// defaultBrowserTimeout bounds page loads and DOM calls of a BrowserPage.
const defaultBrowserTimeout = 30 * time.Second

// Browser is a headless Chrome instance driven with go-rod.
// Rod downloads Chromium on first use if none is found.
// The browser process is started lazily by the first Open.
type Browser struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewBrowser creates a Browser whose page operations time out after timeout.
// A zero timeout selects 30 seconds.
func NewBrowser(timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	return &Browser{timeout: timeout}
}

// ensureBrowser lazily launches and connects to Chrome. Callers hold b.mu.
func (b *Browser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.browser = browser
	b.launcher = l
	return nil
}

// Open loads pageURL in a new tab and returns it as a Page.
func (b *Browser) Open(ctx context.Context, pageURL string) (*BrowserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if err := b.ensureBrowser(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	browser := b.browser
	b.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return &BrowserPage{page: page, timeout: b.timeout}, nil
}

// OpenHTML loads an HTML page held in memory. The page is written to a
// temporary file that is removed when the BrowserPage is closed. hash, when
// not empty, becomes the initial URL fragment.
func (b *Browser) OpenHTML(ctx context.Context, content, hash string) (*BrowserPage, error) {
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		return nil, err
	}

	pageURL := "file://" + path
	if hash != "" {
		pageURL += "#" + strings.TrimPrefix(hash, "#")
	}

	p, err := b.Open(ctx, pageURL)
	if err != nil {
		cleanup()
		return nil, err
	}
	p.cleanup = cleanup
	return p, nil
}

// Close stops the browser and its child processes.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	b.browser = nil

	if b.launcher != nil {
		// Best-effort; launcher.Kill stops the leader if the group is gone
		_ = process.KillTree(b.launcher.PID())
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// BrowserPage is a live Chrome tab used as a Page.
type BrowserPage struct {
	page    *rod.Page
	timeout time.Duration
	cleanup func()
}

// BrowserElement is a handle to an element of a BrowserPage.
type BrowserElement struct {
	page *BrowserPage
	el   *rod.Element
	id   string
}

// TargetID implements Target.
func (e *BrowserElement) TargetID() string { return e.id }

// resolve turns a target into an element of this page without waiting for
// the element to appear.
func (p *BrowserPage) resolve(t Target) (*BrowserElement, error) {
	switch v := t.(type) {
	case nil:
		return nil, dom.ErrNilTarget
	case *BrowserElement:
		if v == nil {
			return nil, dom.ErrNilTarget
		}
		if v.page != p {
			return nil, dom.ErrForeignNode
		}
		return v, nil
	}

	id := t.TargetID()
	el, err := p.page.Timeout(p.timeout).Sleeper(rod.NotFoundSleeper).
		ElementByJS(rod.Eval(`id => document.getElementById(id)`, id))
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: #%s", ErrTargetNotFound, id)
		}
		return nil, err
	}
	return &BrowserElement{page: p, el: el, id: id}, nil
}

// Attach replaces the innerHTML of the target element.
func (p *BrowserPage) Attach(t Target, content string) (Target, error) {
	e, err := p.resolve(t)
	if err != nil {
		return nil, err
	}
	if err := e.setInnerHTML(content); err != nil {
		return nil, err
	}
	return e, nil
}

// Update loads the content of the target element into a tree, runs fn on
// it, and writes the result back.
func (p *BrowserPage) Update(t Target, fn func(*html.Node) error) error {
	e, err := p.resolve(t)
	if err != nil {
		return err
	}

	res, err := e.el.Timeout(p.timeout).Eval(`function() { return this.innerHTML }`)
	if err != nil {
		return err
	}

	container := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(res.Value.Str()), container)
	if err != nil {
		return fmt.Errorf("%w: %v", dom.ErrParse, err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	if err := fn(container); err != nil {
		return err
	}

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return err
		}
	}
	return e.setInnerHTML(buf.String())
}

// Hash returns location.hash, or "" when it cannot be read.
func (p *BrowserPage) Hash() string {
	res, err := p.page.Timeout(p.timeout).Eval(`() => window.location.hash`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// SetHash assigns location.hash.
func (p *BrowserPage) SetHash(hash string) error {
	_, err := p.page.Timeout(p.timeout).Eval(`h => { window.location.hash = h }`, hash)
	return err
}

// HTML returns the current page markup.
func (p *BrowserPage) HTML() (string, error) {
	return p.page.Timeout(p.timeout).HTML()
}

// Close closes the tab and removes the temporary page file, if any.
func (p *BrowserPage) Close() error {
	err := p.page.Close()
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return err
}

func (e *BrowserElement) setInnerHTML(content string) error {
	_, err := e.el.Timeout(e.page.timeout).Eval(`function(html) { this.innerHTML = html }`, content)
	return err
}
