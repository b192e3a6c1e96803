package mirror

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/metrics"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// teardown removes one entry. The removed side is the source path by
// default and the mirrored path when DeleteTarget is DeleteDestination.
// Without ignore patterns a directory goes in one recursive removal;
// otherwise files are removed one by one so ignored files and their parent
// directories survive.
func (e *Engine) teardown(res types.EntryResult, isDir bool) (types.EntryResult, error) {
	target := res.Source
	if e.opts.DeleteTarget == types.DeleteDestination {
		target = res.Destination
	}

	switch {
	case !isDir || e.isLink(target):
		if err := e.remove(target); err != nil {
			return res, err
		}
		res.Files = 1
	case e.ignore.Empty():
		if !e.opts.DryRun {
			if err := e.fs.RemoveAll(target); err != nil {
				return res, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", target).
					WithDetail("path", target)
			}
		}
	default:
		n, _, err := e.removeTree(target, res.Source)
		res.Files = n
		if err != nil {
			return res, err
		}
	}

	if e.opts.DeleteTarget == types.DeleteDestination {
		if err := e.pruneParents(filepath.Dir(target)); err != nil {
			return res, err
		}
	}

	res.Outcome = types.OutcomeDeleted
	e.announce(output.ActionDeleted, e.resolver.InApp(target))
	return res, nil
}

// removeTree deletes the non-ignored files below dir, then dir itself if it
// ended up empty. srcDir is the application-side counterpart of dir; ignore
// patterns are always tested against source paths. It returns the number of
// files removed and whether dir is gone.
func (e *Engine) removeTree(dir, srcDir string) (int, bool, error) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return 0, false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dir).
			WithDetail("path", dir)
	}

	removed, kept := 0, 0
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		src := filepath.Join(srcDir, entry.Name())

		if entry.IsDir() {
			n, gone, err := e.removeTree(path, src)
			removed += n
			if err != nil {
				return removed, false, err
			}
			if !gone {
				kept++
			}
			continue
		}

		if pattern, ok := e.ignore.Match(src); ok {
			e.log.Debug().Str("source", src).Str("pattern", pattern).Msg("Keeping ignored file")
			e.reporter.File(output.ActionIgnoring, e.resolver.InApp(src))
			kept++
			continue
		}

		if err := e.remove(path); err != nil {
			return removed, false, err
		}
		removed++
		e.reporter.File(output.ActionDeleted, e.resolver.InApp(path))
		metrics.RecordFile(string(output.ActionDeleted))
	}

	if kept > 0 {
		return removed, false, nil
	}
	if err := e.remove(dir); err != nil {
		return removed, false, err
	}
	return removed, true, nil
}

// pruneParents removes empty directories from dir upwards, stopping at the
// destination root.
func (e *Engine) pruneParents(dir string) error {
	root, err := e.resolver.Destination()
	if err != nil {
		return err
	}

	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		if e.opts.DryRun {
			return nil
		}
		entries, err := e.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return nil
		}
		if err := e.remove(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func (e *Engine) remove(path string) error {
	if e.opts.DryRun {
		return nil
	}
	if err := e.fs.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", path).
			WithDetail("path", path)
	}
	return nil
}
