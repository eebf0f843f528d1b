package refblob

import (
	"growthstandards/internal/infra/refblob/fs"
)

// NewFilesystem constructs a filesystem-backed refblob.Store rooted at the
// provided path. Returns refblob.Store to encourage call sites to depend on
// the interface instead of concrete implementations.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
