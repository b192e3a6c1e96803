package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested FileTrees.
type FileTree map[string]interface{}

// Files builds a FileTree from slash-separated paths.
func Files(files map[string]string) FileTree {
	tree := FileTree{}
	for rel, content := range files {
		tree[rel] = content
	}
	return tree
}

// NewApp creates an application root in a temporary directory and writes
// tree into it. The returned path has its symlinks resolved so it compares
// equal to what the resolver reports.
func NewApp(t *testing.T, tree FileTree) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	WriteTree(t, filesystem.NewOS(), root, tree)
	return root
}

// WriteTree recursively creates tree under basePath.
func WriteTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, filepath.FromSlash(name))

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			WriteTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
