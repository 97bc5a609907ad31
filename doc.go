// Package article loads Markdown documents into HTML pages.
//
// # Quick Start
//
// Parse a page, then read a document into one of its regions:
//
//	page, err := article.NewPage(article.PageOptions{
//	    Location: "https://example.com/guide.html#install",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	loader := article.NewLoader(page)
//	hooks := article.DefaultHooks(page, article.HookOptions{
//	    Content:     article.ID("content"),
//	    DocumentURL: "https://example.com/docs/guide.md",
//	})
//
//	err = loader.Read(ctx, "https://example.com/docs/guide.md", "https://example.com/docs/guide.md", hooks)
//
// # Read Pipeline
//
// Read runs these stages in order:
//
//  1. Capture the URL fragment of the page
//  2. Fetch the Markdown (HTTP GET, Content-Type: text/plain, no cache)
//  3. Hooks.Parse on the Markdown
//  4. Render to HTML via goldmark (GFM, footnotes, heading ids)
//  5. Hooks.Preprocess on the HTML
//  6. Attach to Hooks.Content (innerHTML replacement)
//  7. Hooks.Highlight
//  8. Assign the captured fragment again, when there was one
//
// # Failures
//
// Only retrieval failures are recovered. When the fetch fails, Read attaches
//
//	Oops, cannot load content for the moment...<br>Try refersh or <a href="REF" target="_blank">click</a>
//
// and returns nil. Rendering errors (ErrConversion) and unknown targets
// (ErrTargetNotFound) are returned to the caller with nothing attached.
//
// # Pages
//
// A Page is anything that can replace region content and expose a URL
// fragment. Document is an in-memory page backed by golang.org/x/net/html.
// BrowserPage drives a live Chrome tab through go-rod:
//
//	browser := article.NewBrowser(30 * time.Second)
//	defer browser.Close()
//
//	page, err := browser.Open(ctx, "http://localhost:8080/guide.html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer page.Close()
//
// # Concurrency
//
// Reads are not serialized: when several Reads target the same region, the
// last one to attach wins. WithSequencedWrites keeps the content of the most
// recently started Read instead.
package article
