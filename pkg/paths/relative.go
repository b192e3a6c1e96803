package paths

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/types"
)

// RelativePath computes a POSIX-style path leading from `from` to `to`.
// When `from` is an existing regular file its containing directory is used.
// Both inputs are normalized to forward slashes; the common leading segments
// are dropped, every remaining segment of `from` becomes `../` and the
// remaining segments of `to` are appended.
func RelativePath(fs types.FS, from, to string) string {
	if info, err := fs.Stat(from); err == nil && info.Mode().IsRegular() {
		from = filepath.Dir(from)
	}
	return Relative(from, to)
}

// Relative is RelativePath for a `from` known to be a directory.
func Relative(fromDir, to string) string {
	fromDir = strings.TrimRight(strings.ReplaceAll(fromDir, `\`, "/"), "/")
	to = strings.ReplaceAll(to, `\`, "/")

	dir := strings.Split(fromDir, "/")
	file := strings.Split(to, "/")

	for len(dir) > 0 && len(file) > 0 && dir[0] == file[0] {
		dir = dir[1:]
		file = file[1:]
	}

	return strings.Repeat("../", len(dir)) + path.Join(file...)
}

// LinkTarget returns the relative symlink target for a link created at
// linkPath that must point at source.
//
// RelativePath treats a not-yet-existing link path as a directory, which
// yields one `../` too many; a single leading `../` is therefore stripped,
// together with any trailing slash.
func LinkTarget(fs types.FS, linkPath, source string) string {
	rel := RelativePath(fs, linkPath, source)
	if strings.HasPrefix(rel, "../") {
		rel = strings.TrimRight(rel[3:], "/")
	}
	return rel
}
