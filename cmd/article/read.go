package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	article "github.com/alnah/go-mdarticle"
	"github.com/alnah/go-mdarticle/internal/assets"
	"github.com/alnah/go-mdarticle/internal/config"
	"github.com/alnah/go-mdarticle/internal/fetch"
	"github.com/alnah/go-mdarticle/internal/fileutil"
	"github.com/alnah/go-mdarticle/internal/hints"
	"github.com/alnah/go-mdarticle/internal/logging"
	"github.com/alnah/go-mdarticle/internal/pipeline"
)

// Sentinel errors for the read command.
var (
	ErrNoInput        = errors.New("no source specified")
	ErrInvalidSource  = errors.New("invalid source")
	ErrInvalidFlag    = errors.New("invalid flag value")
	ErrOutputConflict = errors.New("conflicting output paths")
	ErrReadAsset      = errors.New("failed to read page asset")
	ErrWriteOutput    = errors.New("failed to write page")
	ErrFallback       = errors.New("documents replaced by the fallback message")
)

// documentExtensions are stripped when deriving output names.
var documentExtensions = []string{".md", ".markdown", ".mdown", ".txt"}

// Job is one document to read and the page file it produces.
type Job struct {
	Source     string // As given by the user
	URL        string // Absolute document URL
	Ref        string // Fallback link
	OutputPath string
}

// readParams groups settings shared by every job of a run.
type readParams struct {
	template    string
	css         string
	inlineCSS   string
	location    string
	contentID   string
	highlighter *article.Highlighter
	renderer    article.Renderer
	client      *fetch.Client
	logger      *slog.Logger
	timeout     time.Duration
}

// runRead loads documents into pages and writes the pages to disk.
func runRead(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseReadFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile := flags.common.logFile
	if logFile == "" {
		logFile = envCfg.LogFile
	}
	logger, closeLog, err := logging.New(logging.Options{
		Terminal: env.Stderr,
		File:     logFile,
		Level:    logging.LevelFor(flags.common.verbose, flags.common.quiet),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer func() { _ = closeLog() }()

	params, err := buildParams(cfg, logger)
	if err != nil {
		return err
	}

	sources := positional
	if len(sources) == 0 {
		sources = cfg.Source.URLs
	}
	jobs, err := planJobs(sources, cfg, params.client)
	if err != nil {
		return err
	}

	pool, err := newPool(cfg, params)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	logger.Debug("reading documents", "count", len(jobs), "workers", pool.Size(), "browser", cfg.Browser.Enabled)

	results := readBatch(ctx, pool, jobs, params)
	failed, fellBack := printResults(results, flags.common.quiet, flags.common.verbose, env)

	switch {
	case failed > 0:
		return firstError(results, params.contentID)
	case fellBack > 0 && flags.output.failOnFallback:
		return fmt.Errorf("%w: %d of %d", ErrFallback, fellBack, len(results))
	}
	return nil
}

// loadConfig loads the named config, or returns defaults when none is named.
func loadConfig(fromFlag, fromEnv string) (*config.Config, error) {
	name := fromFlag
	if name == "" {
		name = fromEnv
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, "/\\") {
			hint = hints.ForConfigNotFound(config.SearchPaths(name))
		}
		return nil, fmt.Errorf("loading config: %w%s", err, hint)
	}
	return cfg, nil
}

// buildParams turns the validated config into reading collaborators.
func buildParams(cfg *config.Config, logger *slog.Logger) (*readParams, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &readParams{
		location:  cfg.Page.Location,
		contentID: cfg.Page.ContentID,
		logger:    logger,
	}

	// Validated by cfg.Validate
	p.timeout, _ = cfg.FetchTimeout()

	var fetchOpts []fetch.Option
	if cfg.Source.BaseURL != "" {
		base, err := url.Parse(cfg.Source.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: base URL: %v", ErrInvalidSource, err)
		}
		fetchOpts = append(fetchOpts, fetch.WithBaseURL(base))
	}
	if cfg.Source.MaxBytes > 0 {
		fetchOpts = append(fetchOpts, fetch.WithMaxBytes(cfg.Source.MaxBytes))
	}
	if cfg.Source.Origin != "" {
		fetchOpts = append(fetchOpts, fetch.WithOrigin(cfg.Source.Origin))
	}
	userAgent := cfg.Source.UserAgent
	if userAgent == "" {
		userAgent = "go-mdarticle/" + Version
	}
	fetchOpts = append(fetchOpts, fetch.WithUserAgent(userAgent))
	p.client = fetch.NewClient(fetchOpts...)

	var renderOpts []pipeline.RendererOption
	if cfg.Page.UnsafeHTML {
		renderOpts = append(renderOpts, pipeline.WithUnsafeHTML())
	}

	if cfg.Highlight.Enabled {
		h, err := article.NewHighlighter(cfg.Highlight.Style)
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(article.HighlightStyles()))
		}
		if cfg.Highlight.Inline {
			style := cfg.Highlight.Style
			if style == "" {
				style = article.DefaultHighlightStyle
			}
			renderOpts = append(renderOpts, pipeline.WithInlineHighlighting(style))
			// Code is colored before it reaches the page, so only the stylesheet is needed
			var css strings.Builder
			if err := h.WriteCSS(&css); err != nil {
				return nil, err
			}
			p.inlineCSS = css.String()
		} else {
			p.highlighter = h
		}
	}
	p.renderer = pipeline.NewGoldmarkRenderer(renderOpts...)

	if err := p.loadPageAssets(cfg.Page); err != nil {
		return nil, err
	}
	return p, nil
}

// loadPageAssets reads the page template and stylesheets. An explicit
// template file wins over the assets directory, which falls back to the
// built-in assets for whatever it does not provide.
func (p *readParams) loadPageAssets(page config.PageConfig) error {
	var css strings.Builder

	if page.Assets != "" {
		resolver, err := assets.NewAssetResolver(page.Assets)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadAsset, err)
		}
		p.logger.Debug("page assets", "dir", page.Assets, "custom", resolver.HasCustomLoader())
		if page.Template == "" {
			if p.template, err = resolver.LoadTemplate(assets.DefaultTemplateName); err != nil {
				return fmt.Errorf("%w: %w", ErrReadAsset, err)
			}
		}
		// A non-empty template skips the built-in stylesheet, so carry it here
		style, err := resolver.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadAsset, err)
		}
		css.WriteString(style)
	}

	css.WriteString(p.inlineCSS)

	if page.Template != "" {
		data, err := os.ReadFile(page.Template) // #nosec G304 -- user-provided template
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadAsset, err)
		}
		p.template = string(data)
	}
	if page.CSS != "" {
		data, err := os.ReadFile(page.CSS) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadAsset, err)
		}
		css.Write(data)
	}

	p.css = css.String()
	return nil
}

// planJobs resolves every source to an absolute URL and an output path.
func planJobs(sources []string, cfg *config.Config, client *fetch.Client) ([]Job, error) {
	if len(sources) == 0 {
		return nil, ErrNoInput
	}
	if cfg.Output.Path != "" && len(sources) > 1 {
		return nil, fmt.Errorf("%w: --output names one file for %d sources; use --output-dir", ErrOutputConflict, len(sources))
	}

	jobs := make([]Job, 0, len(sources))
	seen := make(map[string]string, len(sources))

	for _, src := range sources {
		docURL, err := resolveSource(src, cfg.Source.BaseURL != "", client)
		if err != nil {
			return nil, err
		}

		out := cfg.Output.Path
		if out == "" {
			out = filepath.Join(cfg.Output.Dir, outputName(docURL))
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, src, out)
		}
		seen[out] = src

		ref := cfg.Source.FallbackRef
		if ref == "" {
			ref = docURL
		}

		jobs = append(jobs, Job{Source: src, URL: docURL, Ref: ref, OutputPath: out})
	}
	return jobs, nil
}

// resolveSource returns the absolute URL of a source. Without a base URL,
// sources that are not URLs are local paths.
func resolveSource(src string, hasBase bool, client *fetch.Client) (string, error) {
	if !hasBase {
		u, err := fileutil.ToURL(src)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return u, nil
	}

	u, err := client.Resolve(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v%s", ErrInvalidSource, err, hints.ForRetrieval(src))
	}
	return u.String(), nil
}

// outputName derives "guide.html" from ".../guide.md".
func outputName(docURL string) string {
	name := "index"
	if u, err := url.Parse(docURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			name = base
		}
	}

	lower := strings.ToLower(name)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	return name + ".html"
}

// firstError returns the error of the first failed result, with its hint.
func firstError(results []ReadResult, contentID string) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w%s", r.Source, r.Err, hintFor(r.Err, contentID))
		}
	}
	return nil
}

// hintFor picks the hint matching a read failure.
func hintFor(err error, contentID string) string {
	switch {
	case errors.Is(err, article.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, article.ErrTargetNotFound):
		return hints.ForTargetNotFound(contentID)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
