package main

import (
	"embed"
	"io/fs"

	"github.com/younwookim/poxel/internal/infrastructure/config"
)

//go:embed configs
var configFS embed.FS

// newLoader reads from dir, or from the embedded configs when dir is empty
func newLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs"), nil
}
