// Package hints appends actionable advice to command errors.
// Every hint reads "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdarticle/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for Chrome launch and connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or drop --browser to render into a static page")

	return formatHints(hints)
}

// ForRetrieval returns hints for a document that could not be fetched.
func ForRetrieval(source string) string {
	if fileutil.IsURL(source) {
		return format("check the URL answers with a text document, or raise --fetch-timeout")
	}
	return format("relative sources need --base, or pass a path to an existing file")
}

// ForTimeout returns a hint about raising the timeouts.
func ForTimeout() string {
	return format("raise --fetch-timeout for slow servers, --timeout for slow pages")
}

// ForConfigNotFound suggests --config or a user config under
// ~/.config/go-mdarticle/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdarticle") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the highlight styles that can be used instead.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForTargetNotFound returns a hint for a content region missing from the page.
func ForTargetNotFound(id string) string {
	return format(`the page needs an element with id="` + id + `"; use --content to pick another`)
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
