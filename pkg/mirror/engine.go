package mirror

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/pubmirror/pkg/catalog"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/ignore"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/metrics"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/arthur-debert/pubmirror/pkg/paths"
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/rs/zerolog"
)

// Engine runs the mirror and teardown state machine over a catalog.
type Engine struct {
	fs       types.FS
	resolver *paths.Resolver
	opts     types.MirrorOptions
	ignore   *ignore.Matcher
	reporter *output.Reporter
	log      zerolog.Logger
}

// New creates an Engine. The ignore patterns of opts are compiled here so a
// bad pattern fails before anything is touched.
func New(fsys types.FS, resolver *paths.Resolver, opts types.MirrorOptions, reporter *output.Reporter) (*Engine, error) {
	matcher, err := ignore.Compile(opts.Ignore)
	if err != nil {
		return nil, err
	}

	if opts.DeleteTarget == "" {
		opts.DeleteTarget = types.DeleteSource
	}
	if !opts.DeleteTarget.Valid() {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown delete target %q", opts.DeleteTarget).
			WithDetail("valid", []types.DeleteTarget{types.DeleteSource, types.DeleteDestination})
	}

	if reporter == nil {
		reporter = output.Discard()
	}
	resolver.DryRun = opts.DryRun

	return &Engine{
		fs:       fsys,
		resolver: resolver,
		opts:     opts,
		ignore:   matcher,
		reporter: reporter,
		log:      logging.GetLogger("mirror"),
	}, nil
}

// Run processes every entry of c: files first, then directories, then
// wildcard expansions. The returned result holds every entry processed
// before a failure.
func (e *Engine) Run(c *catalog.Catalog) (*types.MirrorResult, error) {
	done := logging.LogOperationStart(e.log, e.opts.Mode())
	defer done()
	start := time.Now()

	dest, err := e.resolver.Destination()
	if err != nil {
		return nil, err
	}
	if !e.opts.Delete {
		e.reporter.Destination(dest)
	}

	result := &types.MirrorResult{
		Destination: dest,
		Mode:        e.opts.Mode(),
		DryRun:      e.opts.DryRun,
	}

	for kind, entry := range c.Expand(e.fs, e.resolver.AppRoot()) {
		res, err := e.processEntry(kind, entry)
		if err != nil {
			return result, err
		}
		result.Add(res)
		metrics.RecordEntry(string(kind), string(res.Outcome))
	}

	metrics.RecordRun(result.Mode, time.Since(start))
	e.log.Info().
		Str("mode", result.Mode).
		Int("entries", len(result.Entries)).
		Int("mutations", result.Mutations()).
		Bool("dryRun", e.opts.DryRun).
		Msg("Run finished")

	return result, nil
}

func (e *Engine) processEntry(kind types.EntryKind, entry string) (types.EntryResult, error) {
	src := e.resolver.Source(entry)
	dst, err := e.resolver.Target(entry)
	if err != nil {
		return types.EntryResult{}, err
	}

	res := types.EntryResult{Entry: entry, Kind: kind, Source: src, Destination: dst}
	isDir := kind != types.KindFile

	if outcome, skip := e.guard(isDir, src, dst); skip {
		res.Outcome = outcome
		e.log.Debug().
			Str("entry", entry).
			Str("outcome", string(outcome)).
			Msg("Entry skipped")
		return res, nil
	}

	if pattern, ok := e.ignore.Match(src); ok {
		e.log.Warn().
			Str("source", src).
			Str("pattern", pattern).
			Msg("Ignoring entry")
		e.reporter.Entry(output.ActionIgnoring, src)
		res.Outcome = types.OutcomeSkippedIgnored
		return res, nil
	}

	if e.opts.Delete {
		return e.teardown(res, isDir)
	}

	if isDir {
		if err := e.mkdirAll(filepath.Dir(dst)); err != nil {
			return res, err
		}
		if e.opts.Copy {
			if err := e.dropLink(dst); err != nil {
				return res, err
			}
		}
		files, err := e.walk(src, dst)
		if err != nil {
			return res, err
		}
		res.Files = files
	} else {
		if err := e.mkdirAll(filepath.Dir(dst)); err != nil {
			return res, err
		}
		if err := e.copyOrLink(src, dst); err != nil {
			return res, err
		}
		res.Files = 1
	}

	action := output.ActionLinked
	res.Outcome = types.OutcomeLinked
	if e.opts.Copy {
		action = output.ActionCopied
		res.Outcome = types.OutcomeCopied
	}
	e.announce(action, e.resolver.InApp(src))

	return res, nil
}

// guard applies the skip conditions that come before ignore filtering.
// Create mode requires the source to exist with the right type and skips
// existing destinations, except for directories in copy mode which are
// merged. Delete mode requires the side being removed to exist.
func (e *Engine) guard(isDir bool, src, dst string) (types.Outcome, bool) {
	if e.opts.Delete && e.opts.DeleteTarget == types.DeleteDestination {
		info, err := e.fs.Lstat(dst)
		if err != nil || (!isDir && info.IsDir()) {
			return types.OutcomeSkippedMissing, true
		}
		return "", false
	}

	info, err := e.fs.Stat(src)
	switch {
	case err != nil:
		return types.OutcomeSkippedMissing, true
	case isDir && !info.IsDir():
		return types.OutcomeSkippedMissing, true
	case !isDir && !info.Mode().IsRegular():
		return types.OutcomeSkippedMissing, true
	}

	if e.opts.Delete {
		return "", false
	}

	if isDir && e.opts.Copy {
		return "", false
	}
	if e.exists(dst) {
		return types.OutcomeSkippedExists, true
	}
	return "", false
}

func (e *Engine) announce(action output.Action, path string) {
	if e.opts.DryRun {
		e.reporter.Planned(action, path)
		return
	}
	e.reporter.Entry(action, path)
}

// exists reports whether anything, including a dangling link, is at path.
func (e *Engine) exists(path string) bool {
	_, err := e.fs.Lstat(path)
	return err == nil
}

func (e *Engine) isLink(path string) bool {
	info, err := e.fs.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

func (e *Engine) isDir(path string) bool {
	info, err := e.fs.Stat(path)
	return err == nil && info.IsDir()
}

func (e *Engine) mkdirAll(dir string) error {
	if e.opts.DryRun || e.isDir(dir) {
		return nil
	}
	if err := e.fs.MkdirAll(dir, paths.DirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", dir).
			WithDetail("path", dir)
	}
	return nil
}

func modeOf(info fs.FileInfo) fs.FileMode {
	if perm := info.Mode().Perm(); perm != 0 {
		return perm
	}
	return 0644
}
