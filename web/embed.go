// Package web embeds the single-page estimator form served at "/".
//
// The page posts to /calculate and fills site and panel presets from
// /api/v1/locations and /api/v1/panels, so it needs nothing beyond the
// running API server.
//
// Usage in the API server:
//
//	fs := web.StaticFS()  // returns io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
