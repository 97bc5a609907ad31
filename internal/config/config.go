package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdarticle/internal/fileutil"
	"github.com/alnah/go-mdarticle/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxIDLength        = 100  // Element id
	MaxStyleLength     = 50   // Chroma style name
	MaxUserAgentLength = 256
	MaxWorkers         = 32
)

// Config holds all configuration for reading documents into pages.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Page      PageConfig      `yaml:"page"`
	Highlight HighlightConfig `yaml:"highlight"`
	Output    OutputConfig    `yaml:"output"`
	Browser   BrowserConfig   `yaml:"browser"`
}

// SourceConfig defines where documents come from and how they are fetched.
type SourceConfig struct {
	URLs        []string `yaml:"urls"`        // Used when no URL is given on the command line
	BaseURL     string   `yaml:"baseURL"`     // Resolves relative document URLs
	FallbackRef string   `yaml:"fallbackRef"` // Link of the failure message (empty = document URL)
	Timeout     string   `yaml:"timeout"`     // Go duration, e.g. "10s" (empty = none)
	MaxBytes    int64    `yaml:"maxBytes"`    // 0 = fetcher default
	Origin      string   `yaml:"origin"`
	UserAgent   string   `yaml:"userAgent"`
}

// PageConfig defines the page the documents are attached to.
type PageConfig struct {
	Template   string `yaml:"template"`   // File path (empty = built-in page)
	Assets     string `yaml:"assets"`     // Directory overriding templates/page.html and styles/article.css
	CSS        string `yaml:"css"`        // Extra stylesheet file
	ContentID  string `yaml:"contentID"`  // Region replaced by the document (default: "content")
	Location   string `yaml:"location"`   // Page URL; its fragment is restored after each read
	UnsafeHTML bool   `yaml:"unsafeHTML"` // Pass raw HTML in Markdown through
}

// HighlightConfig defines code block coloring.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"`  // Chroma style (empty = "github")
	Inline  bool   `yaml:"inline"` // Color at render time instead of after attach
}

// OutputConfig defines where rendered pages are written.
type OutputConfig struct {
	Path string `yaml:"path"` // Single document output (empty = derived from source)
	Dir  string `yaml:"dir"`  // Directory for derived names
}

// BrowserConfig defines live-page reads through headless Chrome.
type BrowserConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Page operations (empty = 30s)
	Workers int    `yaml:"workers"` // 0 = auto
}

// FetchTimeout parses Source.Timeout. Empty means no timeout.
func (c *Config) FetchTimeout() (time.Duration, error) {
	return parseDuration("source.timeout", c.Source.Timeout)
}

// BrowserTimeout parses Browser.Timeout. Empty means the browser default.
func (c *Config) BrowserTimeout() (time.Duration, error) {
	return parseDuration("browser.timeout", c.Browser.Timeout)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	for i, u := range c.Source.URLs {
		if err := validateFieldLength(fmt.Sprintf("source.urls[%d]", i), u, MaxURLLength); err != nil {
			return err
		}
	}

	if err := validateAbsoluteURL("source.baseURL", c.Source.BaseURL); err != nil {
		return err
	}
	if err := validateFieldLength("source.fallbackRef", c.Source.FallbackRef, MaxURLLength); err != nil {
		return err
	}
	if err := validateAbsoluteURL("source.origin", c.Source.Origin); err != nil {
		return err
	}
	if err := validateFieldLength("source.userAgent", c.Source.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}
	if c.Source.MaxBytes < 0 {
		return fmt.Errorf("%w: source.maxBytes must not be negative, got %d", ErrInvalidValue, c.Source.MaxBytes)
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}

	if err := validateFieldLength("page.template", c.Page.Template, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.assets", c.Page.Assets, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.css", c.Page.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.contentID", c.Page.ContentID, MaxIDLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Page.ContentID, " \t\n") {
		return fmt.Errorf("%w: page.contentID must not contain whitespace", ErrInvalidValue)
	}
	if err := validateFieldLength("page.location", c.Page.Location, MaxURLLength); err != nil {
		return err
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.path", c.Output.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}

	if _, err := c.BrowserTimeout(); err != nil {
		return err
	}
	if c.Browser.Workers < 0 || c.Browser.Workers > MaxWorkers {
		return fmt.Errorf("%w: browser.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Browser.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateAbsoluteURL(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidValue, fieldName, value)
	}
	return nil
}

func parseDuration(fieldName, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return d, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Page:      PageConfig{ContentID: "content"},
		Highlight: HighlightConfig{Enabled: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg, yamlutil.Strict()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// current directory, then ~/.config/go-mdarticle/, each with .yaml and .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-mdarticle", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
