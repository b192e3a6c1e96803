// Package filesystem provides filesystem implementations for pubmirror.
//
// This package contains the afero-backed implementation of the types.FS
// interface. NewOS wraps the real OS filesystem and supports symlinks;
// NewMemory wraps an in-memory filesystem for tests that do not need them.
//
// On the memory filesystem Symlink writes a regular file whose content is
// the target, and Readlink reads it back. Nothing follows or detects such a
// link, so tests of link handling run against NewOS in a temp directory.
package filesystem
