// Package webui carries the embedded static web ui served by the activities
// server.
package webui

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// Assets returns the embedded web ui subtree, rooted so that index.html sits
// at the top level.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic("embed web ui assets: " + err.Error())
	}
	return sub
}
