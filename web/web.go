// Package web embeds the HTML templates and static assets into the binary.
package web

import "embed"

// Templates holds templates/*.html. base.html is the layout every page
// template fills with its "content" block.
//
//go:embed templates/*.html
var Templates embed.FS

// Static is served under /static/.
//
//go:embed static
var Static embed.FS
