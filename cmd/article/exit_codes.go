package main

import (
	"errors"
	"os"

	article "github.com/alnah/go-mdarticle"
	"github.com/alnah/go-mdarticle/internal/assets"
	"github.com/alnah/go-mdarticle/internal/config"
)

// Exit codes for the article CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents read and written
	ExitGeneral = 1 // General/unexpected error, including rendering failures
	ExitUsage   = 2 // Invalid flags, config, style, or page
	ExitIO      = 3 // File errors, unwritable output, fallback with --fail-on-fallback
	ExitBrowser = 4 // Chrome errors
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is, so callers must wrap with fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, article.ErrBrowserConnect) ||
		errors.Is(err, article.ErrPageCreate) ||
		errors.Is(err, article.ErrPageLoad) ||
		errors.Is(err, article.ErrPoolClosed) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadAsset) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrFallback) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, article.ErrUnknownStyle) ||
		errors.Is(err, article.ErrTargetNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrOutputConflict) ||
		errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrInvalidFlag) {
		return ExitUsage
	}

	return ExitGeneral
}
