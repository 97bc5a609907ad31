// Package pipeline implements the text stages of article loading.
//
// The stages around the external Markdown renderer are:
//   - PrepareMarkdown: line normalization and ==highlight== placeholders,
//     applied to fetched text before rendering
//   - GoldmarkRenderer: Markdown to HTML fragment conversion via goldmark
//   - ConvertMarkPlaceholders and RewriteRelativeURLs: applied to the
//     rendered fragment before it is attached to a page
//   - InjectCSS: adds stylesheets to the page that hosts the fragment
//
// Fetching, attaching and code coloring live in their own packages; this
// package only transforms strings.
package pipeline
