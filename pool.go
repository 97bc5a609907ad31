package article

import (
	"errors"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// BrowserPool hands out Browser instances for parallel reads into live pages.
// Each Browser is its own Chrome process. Browsers are created lazily on
// first acquire to avoid startup delay.
type BrowserPool struct {
	size     int
	timeout  time.Duration
	browsers []*Browser
	sem      chan *Browser
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewBrowserPool creates a pool with capacity for n browsers whose page
// operations time out after timeout.
func NewBrowserPool(n int, timeout time.Duration) *BrowserPool {
	if n < 1 {
		n = 1
	}

	return &BrowserPool{
		size:     n,
		timeout:  timeout,
		browsers: make([]*Browser, 0, n),
		sem:      make(chan *Browser, n),
	}
}

// Acquire gets a browser from the pool, creating one if needed.
// Blocks if all browsers are in use. Returns ErrPoolClosed after Close.
func (p *BrowserPool) Acquire() (*Browser, error) {
	// Try to get an existing browser (non-blocking)
	select {
	case b, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return b, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		b := NewBrowser(p.timeout)
		p.browsers = append(p.browsers, b)
		p.mu.Unlock()
		return b, nil
	}
	p.mu.Unlock()

	// All browsers created, wait for one to be released
	b, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return b, nil
}

// Release returns a browser to the pool. Releasing after Close is a no-op.
// The channel holds one slot per browser, so the send never blocks.
func (p *BrowserPool) Release(b *Browser) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.sem <- b
}

// Close stops all browsers.
// Returns an aggregated error if several browsers fail to close.
func (p *BrowserPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	browsers := p.browsers
	p.mu.Unlock()

	var errs []error
	for _, b := range browsers {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *BrowserPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count for batch reads.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
