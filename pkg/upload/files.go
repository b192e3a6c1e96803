package upload

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/spf13/afero"
)

var errStop = errors.New("stop walking")

// Files yields (key, path) for every non-empty file below root, depth-first
// in lexical order. Keys are relative to root with forward slashes. Links to
// files are followed; directories, links to directories and zero-byte files
// are skipped. Every iteration walks the tree afresh.
func Files(fsys afero.Fs, root string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		log := logging.GetLogger("upload")

		err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("Skipping unreadable path")
				return nil
			}
			if info.Mode()&os.ModeSymlink != 0 {
				if info, err = fsys.Stat(path); err != nil {
					log.Debug().Err(err).Str("path", path).Msg("Skipping dangling link")
					return nil
				}
			}
			if info.IsDir() || info.Size() == 0 {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			if !yield(filepath.ToSlash(rel), path) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			log.Warn().Err(err).Str("root", root).Msg("Walk ended early")
		}
	}
}
