package assets

// Built-in asset names.
const (
	// DefaultTemplateName is the embedded page template. Its content region
	// has the id DefaultContentID.
	DefaultTemplateName = "page"

	// DefaultStyleName is the embedded article stylesheet.
	DefaultStyleName = "article"

	// DefaultContentID is the id of the region articles are attached to.
	DefaultContentID = "content"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a page template by name using the default embedded loader.
// Returns ErrTemplateNotFound if the template does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
