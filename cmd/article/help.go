package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: article <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  read       Load Markdown documents into HTML pages")
	fmt.Fprintln(w, "  css        Print the stylesheet of a highlight style")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'article help <command>' for details on a specific command.")
}

// printReadUsage prints usage for the read command.
func printReadUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: article read <source>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch Markdown documents, render them, and write each into a page.")
	fmt.Fprintln(w, "A document that cannot be fetched is replaced by a short message with")
	fmt.Fprintln(w, "a link to it; rendering errors and missing regions fail the read.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    URL or local path (optional if config has source.urls)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "  -b, --base <url>          Base URL for relative sources")
	fmt.Fprintln(w, "      --fallback-ref <url>  Link shown when a document cannot be loaded")
	fmt.Fprintln(w, "      --fetch-timeout <d>   Retrieval timeout (e.g., 10s)")
	fmt.Fprintln(w, "      --max-bytes <n>       Largest document accepted (0 = 4MB)")
	fmt.Fprintln(w, "      --origin <url>        Origin header")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent header")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --template <path>     Page HTML file (default: built-in page)")
	fmt.Fprintln(w, "      --assets <dir>        Directory overriding templates/page.html, styles/article.css")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet file")
	fmt.Fprintln(w, "      --content <id>        Region replaced by the document (default: content)")
	fmt.Fprintln(w, "      --location <url>      Page URL; its #fragment is restored after reading")
	fmt.Fprintln(w, "      --unsafe-html         Keep raw HTML found in Markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlighting:")
	fmt.Fprintln(w, "  -s, --style <name>        Highlight style (default: github)")
	fmt.Fprintln(w, "      --inline-highlight    Color code while rendering")
	fmt.Fprintln(w, "      --no-highlight        Leave code blocks uncolored")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single source)")
	fmt.Fprintln(w, "  -d, --output-dir <dir>    Output directory for derived names")
	fmt.Fprintln(w, "      --fail-on-fallback    Exit 3 when a document could not be loaded")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser             Read into a live Chrome page")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser page timeout (default: 30s)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w, "      --log-file <path>     Append JSON logs to this file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ARTICLE_CONFIG, ARTICLE_TIMEOUT, ARTICLE_BASE_URL, ARTICLE_STYLE,")
	fmt.Fprintln(w, "  ARTICLE_CONTENT_ID, ARTICLE_OUTPUT_DIR, ARTICLE_LOG_FILE, ARTICLE_WORKERS")
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: article css [--style <name>] [--list]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the stylesheet of a highlight style.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --style <name>    Highlight style (default: github)")
	fmt.Fprintln(w, "      --list            List available styles")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: article config [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration read starts from, as YAML. Environment")
	fmt.Fprintln(w, "variables are applied over the config file; flags are not.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>   Config name or path")
}

// runHelp prints help for a specific command and returns the exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "read":
		printReadUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: article version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: article help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
