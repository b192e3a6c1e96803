// Package mirror runs one complete pubmirror invocation: optional removal
// of the destination, the mirror or teardown pass, the index rewrite, the
// optional upload and the final removal.
package mirror

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/catalog"
	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/arthur-debert/pubmirror/pkg/index"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/metrics"
	engine "github.com/arthur-debert/pubmirror/pkg/mirror"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/arthur-debert/pubmirror/pkg/paths"
	"github.com/arthur-debert/pubmirror/pkg/retry"
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/arthur-debert/pubmirror/pkg/upload"
)

// FactoryFunc builds the upload client factory for a disk.
type FactoryFunc func(disk config.DiskConfig, up config.UploadConfig) upload.ClientFactory

// RunOptions holds everything one run needs.
type RunOptions struct {
	Config  *config.Config
	Options types.MirrorOptions

	// FS defaults to the OS filesystem.
	FS types.FS

	// Extenders run after the config-driven extender.
	Extenders []catalog.Extender
	IndexHook index.Hook

	Reporter *output.Reporter

	// UploaderFactory defaults to S3Factory.
	UploaderFactory FactoryFunc

	// MetricsFile receives the Prometheus metrics of the run when set.
	MetricsFile string
}

// RunResult reports what a run did.
type RunResult struct {
	Mirror         *types.MirrorResult
	IndexRewritten bool
	Upload         *upload.Stats
	Removed        bool
}

// S3Factory builds S3 clients tuned by the [upload] section.
func S3Factory(disk config.DiskConfig, up config.UploadConfig) upload.ClientFactory {
	return upload.NewS3Factory(disk, upload.S3Options{
		PartSize:        up.PartSizeMB << 20,
		PartConcurrency: up.PartConcurrency,
	})
}

// Run executes one invocation.
func Run(ctx context.Context, opts RunOptions) (result *RunResult, err error) {
	logger := logging.GetLogger("commands.mirror")

	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "configuration is required")
	}
	if strings.TrimSpace(opts.Options.Destination) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "destination is required")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Reporter == nil {
		opts.Reporter = output.Discard()
	}
	if opts.UploaderFactory == nil {
		opts.UploaderFactory = S3Factory
	}
	if opts.Options.Concurrency <= 0 {
		opts.Options.Concurrency = opts.Config.Upload.Concurrency
	}

	if opts.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(opts.MetricsFile); werr != nil {
				logger.Warn().Err(werr).Str("path", opts.MetricsFile).Msg("Cannot write metrics file")
			}
		}()
	}

	// A bad disk name must fail before anything is touched.
	var disk config.DiskConfig
	if opts.Options.Disk != "" {
		if disk, err = opts.Config.Disk(opts.Options.Disk); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("appRoot", opts.Config.AppRoot).
		Str("destination", opts.Options.Destination).
		Str("mode", opts.Options.Mode()).
		Bool("copy", opts.Options.Copy).
		Bool("relative", opts.Options.Relative).
		Str("disk", opts.Options.Disk).
		Bool("dryRun", opts.Options.DryRun).
		Msg("Starting run")

	result = &RunResult{}
	resolver := paths.NewResolver(opts.FS, opts.Config.AppRoot, opts.Options.Destination)

	if opts.Options.Remove && !opts.Options.DryRun {
		if err := removeDestination(opts.FS, resolver); err != nil {
			return result, err
		}
		// Start over so the destination root is recreated.
		resolver = paths.NewResolver(opts.FS, opts.Config.AppRoot, opts.Options.Destination)
	}

	extenders := append([]catalog.Extender{catalog.FromConfig(opts.Config.Catalog)}, opts.Extenders...)
	cat := catalog.Build(extenders...)

	eng, err := engine.New(opts.FS, resolver, opts.Options, opts.Reporter)
	if err != nil {
		return result, err
	}
	if result.Mirror, err = eng.Run(cat); err != nil {
		return result, err
	}

	// Only a front controller copied by this run is rewritten; an earlier
	// copy already carries its prefix.
	if opts.Options.Copy && !opts.Options.DryRun && copied(result.Mirror, opts.Config.Index.File) {
		rewriter := index.NewRewriter(opts.FS, opts.Config.Index.File, opts.IndexHook)
		if result.IndexRewritten, err = rewriter.Rewrite(resolver.AppRoot(), result.Mirror.Destination); err != nil {
			return result, err
		}
	}

	opts.Reporter.Summary(result.Mirror.Mode)

	if opts.Options.Disk != "" {
		if opts.Options.DryRun {
			logger.Info().Str("disk", opts.Options.Disk).Msg("Dry run: upload skipped")
		} else {
			stats, err := uploadMirror(ctx, opts, disk, result.Mirror.Destination)
			result.Upload = &stats
			if err != nil {
				return result, err
			}
		}
	}

	if opts.Options.Remove && !opts.Options.DryRun {
		if err := removeDestination(opts.FS, resolver); err != nil {
			return result, err
		}
		result.Removed = true
	}

	return result, nil
}

// copied reports whether file was a file entry copied by the run.
func copied(res *types.MirrorResult, file string) bool {
	want := filepath.ToSlash(filepath.Clean(file))
	for _, e := range res.Entries {
		if e.Kind == types.KindFile && e.Outcome == types.OutcomeCopied && e.Entry == want {
			return true
		}
	}
	return false
}

func uploadMirror(ctx context.Context, opts RunOptions, disk config.DiskConfig, root string) (upload.Stats, error) {
	up := opts.Config.Upload
	uploader := upload.NewEngine(filesystem.Afero(opts.FS), opts.UploaderFactory(disk, up), upload.Options{
		Bucket:      disk.Bucket,
		Prefix:      opts.Options.Destination,
		Concurrency: opts.Options.Concurrency,
		RotateEvery: up.RotateEvery,
		Retry:       retry.DefaultConfig().WithAttempts(up.Attempts),
		OnStart:     opts.Reporter.Uploading,
		OnComplete:  opts.Reporter.Uploaded,
	})
	return uploader.Upload(ctx, root)
}

// removeDestination deletes the whole destination tree. It refuses to
// remove the application root or any of its ancestors.
func removeDestination(fs types.FS, resolver *paths.Resolver) error {
	dest, err := resolver.Destination()
	if err != nil {
		return err
	}

	appRoot := resolver.AppRoot()
	if dest == appRoot || strings.HasPrefix(appRoot, dest+string(filepath.Separator)) || dest == string(filepath.Separator) {
		return errors.Newf(errors.ErrInvalidInput, "refusing to remove %s: it contains the application root", dest).
			WithDetail("destination", dest)
	}

	if err := fs.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove destination %s", dest).
			WithDetail("path", dest)
	}
	logger := logging.GetLogger("commands.mirror")
	logger.Info().Str("path", dest).Msg("Destination removed")
	return nil
}
