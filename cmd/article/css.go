package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	article "github.com/alnah/go-mdarticle"
	"github.com/alnah/go-mdarticle/internal/hints"
)

// runCSS prints the stylesheet of a highlight style, or lists the styles.
func runCSS(args []string, env *Environment) error {
	fs := flag.NewFlagSet("css", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	style := fs.StringP("style", "s", "", "highlight style (default: "+article.DefaultHighlightStyle+")")
	list := fs.Bool("list", false, "list available styles")
	fs.Usage = func() { printCSSUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}

	if *list {
		fmt.Fprintln(env.Stdout, strings.Join(article.HighlightStyles(), "\n"))
		return nil
	}

	h, err := article.NewHighlighter(*style)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(article.HighlightStyles()))
	}
	return h.WriteCSS(env.Stdout)
}
