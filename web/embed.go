// Package web provides the embedded static assets (CSS, JS, images) served
// at /static/ by the storefront and the shop owner's panel.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
