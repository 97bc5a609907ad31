package article

import (
	"strings"

	"github.com/alnah/go-mdarticle/internal/assets"
	"github.com/alnah/go-mdarticle/internal/dom"
	"github.com/alnah/go-mdarticle/internal/pipeline"
)

// DefaultContentID is the id of the content region of the built-in page.
const DefaultContentID = assets.DefaultContentID

// PageOptions configures NewPage.
type PageOptions struct {
	// Template is the page HTML. Empty selects the built-in page, whose
	// content region is #content.
	Template string

	// Location is the page URL. Its fragment is the initial hash.
	Location string

	// CSS is added to the page head, after the built-in article stylesheet
	// when the built-in page is used.
	CSS string

	// Highlighter, when set, adds its stylesheet to the page head.
	Highlighter *Highlighter
}

// NewPage creates an in-memory page ready to receive an article.
func NewPage(opts PageOptions) (*Document, error) {
	page := opts.Template
	var css strings.Builder

	if page == "" {
		var err error
		if page, err = assets.LoadTemplate(assets.DefaultTemplateName); err != nil {
			return nil, err
		}
		style, err := assets.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return nil, err
		}
		css.WriteString(style)
	}

	if opts.Highlighter != nil {
		if err := opts.Highlighter.WriteCSS(&css); err != nil {
			return nil, err
		}
	}
	css.WriteString(opts.CSS)

	return dom.ParseString(pipeline.InjectCSS(page, css.String()), opts.Location)
}
