// Package web embeds the browser UI served at / and /static/.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static
var assets embed.FS

// Static returns the UI files. A non-empty dir overrides the embedded copy.
func Static(dir string) (fs.FS, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, err //nolint:wrapcheck // path error already names the dir
		}
		return os.DirFS(dir), nil
	}
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err //nolint:wrapcheck // unreachable for a fixed embed path
	}
	return sub, nil
}
