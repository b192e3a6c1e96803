package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem interface required for pubmirror operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string, perm fs.FileMode) (io.WriteCloser, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Removal
	Remove(name string) error
	RemoveAll(path string) error

	// Lstat falls back to Stat on filesystems without symlink support
	Lstat(name string) (fs.FileInfo, error)
}
