package frontend

import (
	"embed"
	"io/fs"
)

//go:embed dist
var distFS embed.FS

// DistFS returns the embedded page and its assets.
func DistFS() (fs.FS, error) {
	return fs.Sub(distFS, "dist")
}
