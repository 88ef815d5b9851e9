package mailer

import (
	"context"
	"os"
	"path/filepath"
)

// AssetSource loads the static files used by the MIME variants.
type AssetSource interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads assets from a local directory. Names cannot escape Root.
type DirSource struct {
	Root string
}

func (d DirSource) Read(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.Root, filepath.Clean("/"+name)))
}
