package paths

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/types"
)

// Wildcard is the segment placeholder in catalog wildcard entries.
const Wildcard = "*"

// IsWildcard reports whether an entry needs expansion.
func IsWildcard(entry string) bool {
	return strings.Contains(entry, Wildcard)
}

// ExpandWildcard returns the directories, relative to appRoot, that match
// pattern. The first `*` is split off; every directory directly under the
// prefix produces prefix+name+suffix, which is expanded again while it still
// holds a `*`. A missing prefix yields nothing. Only candidates that exist
// as directories are yielded.
//
// The sequence is restartable: each iteration scans the filesystem afresh.
func ExpandWildcard(fs types.FS, appRoot, pattern string) iter.Seq[string] {
	return func(yield func(string) bool) {
		expand(fs, appRoot, pattern, yield)
	}
}

func expand(fs types.FS, appRoot, pattern string, yield func(string) bool) bool {
	prefix, suffix, found := strings.Cut(pattern, Wildcard)
	if !found {
		if isDir(fs, filepath.Join(appRoot, filepath.FromSlash(pattern))) {
			return yield(pattern)
		}
		return true
	}

	startDir := filepath.Join(appRoot, filepath.FromSlash(prefix))
	entries, err := fs.ReadDir(startDir)
	if err != nil {
		return true
	}

	for _, entry := range entries {
		if !isDir(fs, filepath.Join(startDir, entry.Name())) {
			continue
		}
		if !expand(fs, appRoot, prefix+entry.Name()+suffix, yield) {
			return false
		}
	}
	return true
}

// isDir follows symlinks so linked module directories expand too.
func isDir(fs types.FS, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}
