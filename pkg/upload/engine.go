package upload

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/metrics"
	"github.com/arthur-debert/pubmirror/pkg/retry"
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// DefaultRotateEvery is the number of admitted uploads after which the
// client is rebuilt.
const DefaultRotateEvery = 800

// Options configures an upload run.
type Options struct {
	Bucket string

	// Prefix is prepended to every key, usually the destination argument.
	Prefix string

	Concurrency int
	RotateEvery int
	Retry       retry.Config

	// OnStart and OnComplete are called from worker goroutines.
	OnStart    func(key string)
	OnComplete func(key string)
}

// Stats summarizes a finished run.
type Stats struct {
	Files     int
	Bytes     int64
	Batches   int
	Rotations int
}

// Engine uploads a directory tree.
type Engine struct {
	fs      afero.Fs
	factory ClientFactory
	opts    Options
	log     zerolog.Logger
}

// NewEngine creates an Engine. Zero values in opts fall back to the
// defaults.
func NewEngine(fs afero.Fs, factory ClientFactory, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = types.DefaultConcurrency
	}
	if opts.RotateEvery <= 0 {
		opts.RotateEvery = DefaultRotateEvery
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.DefaultConfig().WithAttempts(1)
	}
	return &Engine{
		fs:      fs,
		factory: factory,
		opts:    opts,
		log:     logging.GetLogger("upload"),
	}
}

// batch is the set of uploads admitted since the last drain.
type batch struct {
	group *errgroup.Group
	size  int
}

func newBatch() *batch {
	return &batch{group: &errgroup.Group{}}
}

// Upload pushes every file below root. It stops at the first failed batch.
func (e *Engine) Upload(ctx context.Context, root string) (Stats, error) {
	done := logging.LogOperationStart(e.log, "upload")
	defer done()

	var (
		stats Stats
		mu    sync.Mutex
	)

	client, err := e.client(ctx)
	if err != nil {
		return stats, err
	}

	current := newBatch()
	drain := func() error {
		if current.size == 0 {
			return nil
		}
		err := current.group.Wait()
		stats.Batches++
		metrics.RecordBatch()
		e.log.Debug().Int("batch", stats.Batches).Int("size", current.size).Msg("Batch drained")
		current = newBatch()
		if err != nil {
			return errors.Wrapf(err, errors.ErrUploadBatch, "upload batch %d failed", stats.Batches).
				WithDetail("batch", stats.Batches)
		}
		return nil
	}

	admitted := 0
	for rel, path := range Files(e.fs, root) {
		key := Key(e.opts.Prefix, rel)
		c := client
		current.group.Go(func() error {
			n, err := e.uploadOne(ctx, c, key, path)
			if err == nil {
				mu.Lock()
				stats.Bytes += n
				mu.Unlock()
			}
			return err
		})
		current.size++
		stats.Files++
		admitted++

		if current.size >= e.opts.Concurrency {
			if err := drain(); err != nil {
				return stats, err
			}
		}

		if admitted >= e.opts.RotateEvery {
			if err := drain(); err != nil {
				return stats, err
			}
			if client, err = e.client(ctx); err != nil {
				return stats, err
			}
			stats.Rotations++
			metrics.RecordClientRotation()
			e.log.Info().Int("files", stats.Files).Msg("Storage client rotated")
			admitted = 0
		}
	}

	if err := drain(); err != nil {
		return stats, err
	}

	e.log.Info().
		Int("files", stats.Files).
		Int64("bytes", stats.Bytes).
		Int("batches", stats.Batches).
		Msg("Upload finished")
	return stats, nil
}

func (e *Engine) client(ctx context.Context) (Uploader, error) {
	c, err := e.factory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUploadClient, "cannot create storage client")
	}
	return c, nil
}

// uploadOne uploads a single file, retrying with backoff. The file is
// reopened for every attempt.
func (e *Engine) uploadOne(ctx context.Context, client Uploader, key, path string) (int64, error) {
	if e.opts.OnStart != nil {
		e.opts.OnStart(key)
	}
	metrics.UploadStarted()
	defer metrics.UploadFinished()
	start := time.Now()

	var size int64
	err := retry.Do(ctx, e.opts.Retry, func(attempt int) error {
		f, err := e.fs.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		size = info.Size()

		err = client.Upload(ctx, Object{
			Bucket:      e.opts.Bucket,
			Key:         key,
			ContentType: ContentType(key),
			Size:        size,
			Body:        f,
		})
		if err != nil {
			e.log.Debug().Err(err).Str("key", key).Int("attempt", attempt).Msg("Upload attempt failed")
			return retry.Retryable(err)
		}
		return nil
	})

	metrics.RecordUpload(size, time.Since(start), err == nil)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrUploadFailed, "cannot upload %s", key).
			WithDetail("key", key).
			WithDetail("path", path)
	}

	if e.opts.OnComplete != nil {
		e.opts.OnComplete(key)
	}
	return size, nil
}
