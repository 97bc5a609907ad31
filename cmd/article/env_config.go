package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-mdarticle/internal/config"
)

// envPrefix starts every environment variable read by the CLI.
const envPrefix = "ARTICLE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // ARTICLE_CONFIG: config file name or path
	Timeout    string // ARTICLE_TIMEOUT: retrieval timeout
	BaseURL    string // ARTICLE_BASE_URL: base for relative sources
	Style      string // ARTICLE_STYLE: highlight style
	ContentID  string // ARTICLE_CONTENT_ID: content region id
	OutputDir  string // ARTICLE_OUTPUT_DIR: output directory
	LogFile    string // ARTICLE_LOG_FILE: JSON log file
	Workers    int    // ARTICLE_WORKERS: parallel workers
}

// knownEnvVars lists valid ARTICLE_* environment variables.
var knownEnvVars = map[string]bool{
	"ARTICLE_CONFIG":     true,
	"ARTICLE_TIMEOUT":    true,
	"ARTICLE_BASE_URL":   true,
	"ARTICLE_STYLE":      true,
	"ARTICLE_CONTENT_ID": true,
	"ARTICLE_OUTPUT_DIR": true,
	"ARTICLE_LOG_FILE":   true,
	"ARTICLE_WORKERS":    true,
}

// loadEnvConfig reads the ARTICLE_* variables. Malformed worker counts are
// ignored; timeouts are validated with the rest of the config.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.getenv("ARTICLE_CONFIG"),
		Timeout:    env.getenv("ARTICLE_TIMEOUT"),
		BaseURL:    env.getenv("ARTICLE_BASE_URL"),
		Style:      env.getenv("ARTICLE_STYLE"),
		ContentID:  env.getenv("ARTICLE_CONTENT_ID"),
		OutputDir:  env.getenv("ARTICLE_OUTPUT_DIR"),
		LogFile:    env.getenv("ARTICLE_LOG_FILE"),
	}

	if workers := env.getenv("ARTICLE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars warns about ARTICLE_* variables that are not read,
// which are usually typos.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values the file left empty. CLI flags are
// applied afterwards by mergeFlags and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout != "" && cfg.Source.Timeout == "" {
		cfg.Source.Timeout = env.Timeout
	}
	if env.BaseURL != "" && cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = env.BaseURL
	}
	if env.Style != "" && cfg.Highlight.Style == "" {
		cfg.Highlight.Style = env.Style
	}
	// ContentID defaults to "content", so the variable overrides the default
	// but not a value from the file.
	if env.ContentID != "" && (cfg.Page.ContentID == "" || cfg.Page.ContentID == config.DefaultConfig().Page.ContentID) {
		cfg.Page.ContentID = env.ContentID
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Workers > 0 && cfg.Browser.Workers == 0 {
		cfg.Browser.Workers = env.Workers
	}
}
