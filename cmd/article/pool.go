package main

import (
	"context"
	"fmt"
	"sync"

	article "github.com/alnah/go-mdarticle"
	"github.com/alnah/go-mdarticle/internal/config"
)

// newPool returns the worker pool for the configured mode.
func newPool(cfg *config.Config, params *readParams) (Pool, error) {
	size := article.ResolvePoolSize(cfg.Browser.Workers)

	if !cfg.Browser.Enabled {
		return newStaticPool(size), nil
	}

	// Validated by cfg.Validate
	timeout, _ := cfg.BrowserTimeout()
	return &browserPool{pool: article.NewBrowserPool(size, timeout)}, nil
}

// staticWorker reads documents into in-memory pages.
type staticWorker struct{}

// ReadPage implements Worker.
func (staticWorker) ReadPage(ctx context.Context, job Job, params *readParams, fetcher article.Fetcher) (string, error) {
	page, err := params.newDocument()
	if err != nil {
		return "", err
	}

	loader := article.NewLoader(page, params.loaderOptions(fetcher)...)
	if err := loader.Read(ctx, job.URL, job.Ref, params.hooks(page, job)); err != nil {
		return "", err
	}
	return page.String(), nil
}

// staticPool bounds concurrency of in-memory reads.
type staticPool struct {
	size int
	sem  chan struct{}

	mu     sync.Mutex
	closed bool
}

func newStaticPool(n int) *staticPool {
	n = max(n, 1)
	return &staticPool{size: n, sem: make(chan struct{}, n)}
}

// Compile-time check that staticPool implements Pool.
var _ Pool = (*staticPool)(nil)

func (p *staticPool) Acquire() (Worker, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, article.ErrPoolClosed
	}

	p.sem <- struct{}{}
	return staticWorker{}, nil
}

func (p *staticPool) Release(Worker) { <-p.sem }

func (p *staticPool) Size() int { return p.size }

func (p *staticPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// browserWorker reads documents into live Chrome pages.
type browserWorker struct {
	browser *article.Browser
}

// ReadPage implements Worker.
func (w *browserWorker) ReadPage(ctx context.Context, job Job, params *readParams, fetcher article.Fetcher) (string, error) {
	doc, err := params.newDocument()
	if err != nil {
		return "", err
	}

	page, err := w.browser.OpenHTML(ctx, doc.String(), doc.Hash())
	if err != nil {
		return "", err
	}
	defer func() { _ = page.Close() }()

	loader := article.NewLoader(page, params.loaderOptions(fetcher)...)
	if err := loader.Read(ctx, job.URL, job.Ref, params.hooks(page, job)); err != nil {
		return "", err
	}
	return page.HTML()
}

// browserPool adapts article.BrowserPool to the Pool interface.
type browserPool struct {
	pool *article.BrowserPool
}

// Compile-time check that browserPool implements Pool.
var _ Pool = (*browserPool)(nil)

func (p *browserPool) Acquire() (Worker, error) {
	b, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return &browserWorker{browser: b}, nil
}

// Release returns the worker's browser. Panics on a foreign worker
// (programmer error).
func (p *browserPool) Release(w Worker) {
	bw, ok := w.(*browserWorker)
	if !ok {
		panic(fmt.Sprintf("browserPool.Release: unexpected type %T", w))
	}
	p.pool.Release(bw.browser)
}

func (p *browserPool) Size() int { return p.pool.Size() }

func (p *browserPool) Close() error { return p.pool.Close() }

// Compile-time check that workers implement Worker.
var (
	_ Worker = staticWorker{}
	_ Worker = (*browserWorker)(nil)
)
