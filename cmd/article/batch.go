package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	article "github.com/alnah/go-mdarticle"
	"github.com/alnah/go-mdarticle/internal/fileutil"
	"github.com/alnah/go-mdarticle/internal/hints"
)

// Worker reads one document into a fresh page and returns the page markup.
type Worker interface {
	ReadPage(ctx context.Context, job Job, params *readParams, fetcher article.Fetcher) (string, error)
}

// Pool abstracts worker pool operations for testability.
type Pool interface {
	Acquire() (Worker, error)
	Release(Worker)
	Size() int
	Close() error
}

// ReadResult holds the outcome of a single read.
type ReadResult struct {
	Source     string
	OutputPath string
	Fallback   bool
	Err        error
	Duration   time.Duration
}

// fallbackTracker records whether the document could not be fetched.
// Read recovers from that failure, so the command observes it here.
type fallbackTracker struct {
	article.Fetcher
	failed atomic.Bool
}

func (f *fallbackTracker) Fetch(ctx context.Context, url string) (string, error) {
	text, err := f.Fetcher.Fetch(ctx, url)
	if err != nil {
		f.failed.Store(true)
	}
	return text, err
}

// readBatch processes jobs concurrently using the pool.
func readBatch(ctx context.Context, pool Pool, jobs []Job, params *readParams) []ReadResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]ReadResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for range concurrency {
		wg.Go(func() {
			w, err := pool.Acquire()
			if err != nil {
				for idx := range queue {
					results[idx] = ReadResult{Source: jobs[idx].Source, Err: err}
				}
				return
			}
			defer pool.Release(w)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = ReadResult{Source: jobs[idx].Source, Err: ctx.Err()}
					continue
				}
				results[idx] = readJob(ctx, w, jobs[idx], params)
			}
		})
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// readJob reads one document and writes its page.
func readJob(ctx context.Context, w Worker, job Job, params *readParams) ReadResult {
	start := time.Now()
	result := ReadResult{Source: job.Source, OutputPath: job.OutputPath}

	tracker := &fallbackTracker{Fetcher: params.client}
	page, err := w.ReadPage(ctx, job, params, tracker)
	if err == nil {
		// A cancel during the fetch ends as a fallback page; do not keep it
		err = ctx.Err()
	}
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := fileutil.WriteFileAtomic(job.OutputPath, page); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Fallback = tracker.failed.Load()
	result.Duration = time.Since(start)
	return result
}

// loaderOptions returns the Loader options shared by all workers.
func (p *readParams) loaderOptions(fetcher article.Fetcher) []article.Option {
	opts := []article.Option{
		article.WithFetcher(fetcher),
		article.WithRenderer(p.renderer),
		article.WithLogger(p.logger),
	}
	if p.timeout > 0 {
		opts = append(opts, article.WithTimeout(p.timeout))
	}
	return opts
}

// newDocument parses the page a job is read into.
func (p *readParams) newDocument() (*article.Document, error) {
	return article.NewPage(article.PageOptions{
		Template:    p.template,
		Location:    p.location,
		CSS:         p.css,
		Highlighter: p.highlighter,
	})
}

// hooks returns the default hooks for a job on page.
func (p *readParams) hooks(page article.Page, job Job) article.Hooks {
	return article.DefaultHooks(page, article.HookOptions{
		Content:     article.ID(p.contentID),
		DocumentURL: job.URL,
		Highlighter: p.highlighter,
	})
}

// ResultSummary holds the count of succeeded, failed and fallback reads.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Fallback  int
}

func countResults(results []ReadResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Fallback:
			summary.Fallback++
			summary.Succeeded++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each read and returns the failed and fallback counts.
func printResults(results []ReadResult, quiet, verbose bool, env *Environment) (failed, fallback int) {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Source, r.Err)
			continue
		}
		if r.Fallback {
			fmt.Fprintf(env.Stderr, "FALLBACK %s: document unavailable, wrote %s%s\n", r.Source, r.OutputPath, hints.ForRetrieval(r.Source))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Source, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded (%d fallback), %d failed\n", summary.Succeeded, summary.Fallback, summary.Failed)
	}

	return summary.Failed, summary.Fallback
}
