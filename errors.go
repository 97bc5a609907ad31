package article

import (
	"errors"

	"github.com/alnah/go-mdarticle/internal/dom"
	"github.com/alnah/go-mdarticle/internal/fetch"
	"github.com/alnah/go-mdarticle/internal/highlight"
	"github.com/alnah/go-mdarticle/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrRetrieval wraps every failure to obtain the document text.
	// Read recovers from it by attaching the fallback message.
	ErrRetrieval = fetch.ErrRetrieval

	// ErrConversion is returned when Markdown rendering fails.
	// Read does not recover from it.
	ErrConversion = pipeline.ErrConversion

	// ErrTargetNotFound is returned when a content id matches no element.
	ErrTargetNotFound = dom.ErrTargetNotFound

	ErrMissingHook    = errors.New("hook is required")
	ErrHighlight      = highlight.ErrHighlight
	ErrUnknownStyle   = highlight.ErrUnknownStyle
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("pool is closed")
)
