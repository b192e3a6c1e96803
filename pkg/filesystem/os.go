package filesystem

import (
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/spf13/afero"
)

// NewOS creates a filesystem backed by the operating system.
func NewOS() types.FS {
	return NewAferoFS(afero.NewOsFs())
}

// NewMemory creates an in-memory filesystem. Symlinks are simulated as
// regular files holding the target path.
func NewMemory() types.FS {
	return NewAferoFS(afero.NewMemMapFs())
}
