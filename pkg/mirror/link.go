package mirror

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/metrics"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/arthur-debert/pubmirror/pkg/paths"
)

// walk mirrors the contents of srcDir into dstDir depth-first, pre-order.
// Directories are created before their children; files go through the
// ignore check and then copyOrLink. Linked directories are followed once:
// a link back to a directory already on the walk, or to one of its
// ancestors, is skipped. It returns the number of files mirrored.
func (e *Engine) walk(srcDir, dstDir string) (int, error) {
	root := realPath(srcDir)
	return e.walkDir(srcDir, dstDir, root, map[string]bool{root: true})
}

func (e *Engine) walkDir(srcDir, dstDir, root string, visited map[string]bool) (int, error) {
	if err := e.mkdirAll(dstDir); err != nil {
		return 0, err
	}

	entries, err := e.fs.ReadDir(srcDir)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", srcDir).
			WithDetail("path", srcDir)
	}

	count := 0
	for _, entry := range entries {
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())

		if e.isDir(src) {
			resolved := realPath(src)
			if visited[resolved] || strings.HasPrefix(root, resolved+string(filepath.Separator)) {
				e.log.Debug().Str("source", src).Str("target", resolved).Msg("Skipping directory cycle")
				continue
			}
			visited[resolved] = true
			n, err := e.walkDir(src, dst, root, visited)
			count += n
			if err != nil {
				return count, err
			}
			continue
		}

		if pattern, ok := e.ignore.Match(src); ok {
			e.log.Debug().Str("source", src).Str("pattern", pattern).Msg("Ignoring file")
			e.reporter.File(output.ActionIgnoring, e.resolver.InApp(src))
			metrics.RecordFile(string(output.ActionIgnoring))
			continue
		}

		// Link mode never replaces what is already there.
		if !e.opts.Copy && e.exists(dst) {
			continue
		}

		if err := e.copyOrLink(src, dst); err != nil {
			return count, err
		}
		count++

		action := output.ActionLinked
		if e.opts.Copy {
			action = output.ActionCopied
		}
		e.reporter.File(action, e.resolver.InApp(dst))
		metrics.RecordFile(string(action))
	}

	return count, nil
}

// realPath resolves every link in path. Paths the OS cannot resolve, such
// as those of an in-memory filesystem, are only cleaned.
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// copyOrLink is the single mutation primitive of mirror mode.
func (e *Engine) copyOrLink(src, dst string) error {
	if e.opts.DryRun {
		return nil
	}
	if e.opts.Copy {
		return e.copyFile(src, dst)
	}
	return e.link(src, dst)
}

func (e *Engine) link(src, dst string) error {
	target := src
	if e.opts.Relative {
		target = paths.LinkTarget(e.fs, dst, src)
	}

	if err := e.fs.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", dst).
			WithDetail("source", src).
			WithDetail("target", target)
	}

	e.log.Trace().Str("link", dst).Str("target", target).Msg("Symlink created")
	return nil
}

func (e *Engine) copyFile(src, dst string) error {
	wrap := func(err error, format string) error {
		return errors.Wrapf(err, errors.ErrFileCopy, format, src).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}

	info, err := e.fs.Stat(src)
	if err != nil {
		return wrap(err, "cannot stat %s")
	}

	if err := e.dropLink(dst); err != nil {
		return err
	}

	in, err := e.fs.Open(src)
	if err != nil {
		return wrap(err, "cannot open %s")
	}
	defer func() { _ = in.Close() }()

	out, err := e.fs.Create(dst, modeOf(info))
	if err != nil {
		return wrap(err, "cannot create copy of %s")
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return wrap(err, "cannot copy %s")
	}
	if err := out.Close(); err != nil {
		return wrap(err, "cannot finish copy of %s")
	}

	e.log.Trace().Str("source", src).Str("destination", dst).Msg("File copied")
	return nil
}

// dropLink removes a symlink left at path by an earlier link-mode run so a
// copy never writes through it into the source tree.
func (e *Engine) dropLink(path string) error {
	if e.opts.DryRun {
		return nil
	}
	info, err := e.fs.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if err := e.fs.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "cannot replace link %s", path).
			WithDetail("path", path)
	}
	return nil
}
