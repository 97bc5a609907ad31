package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdarticle/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logFile string
}

// sourceFlags holds retrieval flags.
type sourceFlags struct {
	base         string
	fallbackRef  string
	fetchTimeout string
	maxBytes     int64
	origin       string
	userAgent    string
}

// pageFlags holds flags for the page documents are attached to.
type pageFlags struct {
	template   string
	assets     string
	css        string
	contentID  string
	location   string
	unsafeHTML bool
}

// highlightFlags holds code coloring flags.
type highlightFlags struct {
	style    string
	inline   bool
	disabled bool
}

// outputFlags holds output location flags.
type outputFlags struct {
	path           string
	dir            string
	failOnFallback bool
}

// browserFlags holds live-page flags.
type browserFlags struct {
	enabled bool
	timeout string
	workers int
}

// readFlags holds all flags for the read command.
type readFlags struct {
	common    commonFlags
	source    sourceFlags
	page      pageFlags
	highlight highlightFlags
	output    outputFlags
	browser   browserFlags

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.StringVar(&f.logFile, "log-file", "", "append JSON logs to this file")
}

func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.base, "base", "b", "", "base URL for relative sources")
	fs.StringVar(&f.fallbackRef, "fallback-ref", "", "link shown when a document cannot be loaded (default: its URL)")
	fs.StringVar(&f.fetchTimeout, "fetch-timeout", "", "retrieval timeout (e.g., 10s)")
	fs.Int64Var(&f.maxBytes, "max-bytes", 0, "largest document accepted (0 = 4MB)")
	fs.StringVar(&f.origin, "origin", "", "Origin header sent with requests")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header sent with requests")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.template, "template", "", "page HTML file (default: built-in page)")
	fs.StringVar(&f.assets, "assets", "", "directory with templates/page.html and styles/article.css overrides")
	fs.StringVar(&f.css, "css", "", "extra stylesheet file")
	fs.StringVar(&f.contentID, "content", "", "id of the region replaced by the document")
	fs.StringVar(&f.location, "location", "", "page URL; its #fragment is restored after reading")
	fs.BoolVar(&f.unsafeHTML, "unsafe-html", false, "keep raw HTML found in Markdown")
}

func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.StringVarP(&f.style, "style", "s", "", "code highlight style (see 'article css --list')")
	fs.BoolVar(&f.inline, "inline-highlight", false, "color code while rendering instead of after attaching")
	fs.BoolVar(&f.disabled, "no-highlight", false, "leave code blocks uncolored")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file (single source)")
	fs.StringVarP(&f.dir, "output-dir", "d", "", "output directory for derived names")
	fs.BoolVar(&f.failOnFallback, "fail-on-fallback", false, "exit 3 when a document could not be loaded")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.BoolVar(&f.enabled, "browser", false, "read into a live Chrome page")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser page timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
}

// parseReadFlags parses read command flags and returns positional args.
func parseReadFlags(args []string, usage io.Writer) (*readFlags, []string, error) {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &readFlags{changed: fs.Changed}

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addPageFlags(fs, &f.page)
	addHighlightFlags(fs, &f.highlight)
	addOutputFlags(fs, &f.output)
	addBrowserFlags(fs, &f.browser)

	fs.Usage = func() { printReadUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// mergeFlags applies flags set on the command line to cfg (CLI wins).
// Unset flags leave config and environment values untouched.
func mergeFlags(f *readFlags, cfg *config.Config) {
	set := func(name string, apply func()) {
		if f.changed(name) {
			apply()
		}
	}

	set("base", func() { cfg.Source.BaseURL = f.source.base })
	set("fallback-ref", func() { cfg.Source.FallbackRef = f.source.fallbackRef })
	set("fetch-timeout", func() { cfg.Source.Timeout = f.source.fetchTimeout })
	set("max-bytes", func() { cfg.Source.MaxBytes = f.source.maxBytes })
	set("origin", func() { cfg.Source.Origin = f.source.origin })
	set("user-agent", func() { cfg.Source.UserAgent = f.source.userAgent })

	set("template", func() { cfg.Page.Template = f.page.template })
	set("assets", func() { cfg.Page.Assets = f.page.assets })
	set("css", func() { cfg.Page.CSS = f.page.css })
	set("content", func() { cfg.Page.ContentID = f.page.contentID })
	set("location", func() { cfg.Page.Location = f.page.location })
	set("unsafe-html", func() { cfg.Page.UnsafeHTML = f.page.unsafeHTML })

	set("style", func() { cfg.Highlight.Style = f.highlight.style })
	set("inline-highlight", func() { cfg.Highlight.Inline = f.highlight.inline })
	set("no-highlight", func() { cfg.Highlight.Enabled = !f.highlight.disabled })

	set("output", func() { cfg.Output.Path = f.output.path })
	set("output-dir", func() { cfg.Output.Dir = f.output.dir })

	set("browser", func() { cfg.Browser.Enabled = f.browser.enabled })
	set("timeout", func() { cfg.Browser.Timeout = f.browser.timeout })
	set("workers", func() { cfg.Browser.Workers = f.browser.workers })
}
