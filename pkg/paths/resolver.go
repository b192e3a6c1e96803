package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// DirPerm is the mode of every directory pubmirror creates.
const DirPerm os.FileMode = 0755

// Resolver maps catalog entries to absolute source and destination paths
// for a single run.
type Resolver struct {
	fs          types.FS
	appRoot     string
	destination string

	// DryRun stops Destination from creating the directory.
	DryRun bool

	resolved string
}

// NewResolver creates a Resolver for the given application root and raw
// destination argument. The destination is not touched until Destination
// is first called.
func NewResolver(fs types.FS, appRoot, destination string) *Resolver {
	return &Resolver{
		fs:          fs,
		appRoot:     canonical(appRoot),
		destination: destination,
	}
}

// AppRoot returns the canonical application root.
func (r *Resolver) AppRoot() string {
	return r.appRoot
}

// RawDestination returns the destination argument as given.
func (r *Resolver) RawDestination() string {
	return r.destination
}

// Destination returns the absolute, canonical destination root, creating it
// and its parents if missing. The result is cached for the life of the
// Resolver.
func (r *Resolver) Destination() (string, error) {
	if r.resolved != "" {
		return r.resolved, nil
	}

	if strings.TrimSpace(r.destination) == "" {
		return "", errors.New(errors.ErrInvalidInput, "destination must not be empty")
	}

	dest := r.destination
	if _, err := r.fs.Stat(dest); err != nil {
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(r.appRoot, dest)
		}
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDestResolve, "cannot resolve destination %s", r.destination)
	}

	if info, err := r.fs.Stat(abs); !r.DryRun && (err != nil || !info.IsDir()) {
		if err := r.fs.MkdirAll(abs, DirPerm); err != nil {
			return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create destination %s", abs).
				WithDetail("path", abs)
		}
	}

	r.resolved = canonical(abs)

	logger := logging.GetLogger("paths")
	logger.Debug().
		Str("raw", r.destination).
		Str("resolved", r.resolved).
		Msg("Destination resolved")

	return r.resolved, nil
}

// Source returns the absolute application-side path of a catalog entry.
func (r *Resolver) Source(entry string) string {
	return filepath.Join(r.appRoot, filepath.FromSlash(entry))
}

// Target returns the absolute destination-side path of a catalog entry.
func (r *Resolver) Target(entry string) (string, error) {
	dest, err := r.Destination()
	if err != nil {
		return "", err
	}
	return filepath.Join(dest, filepath.FromSlash(entry)), nil
}

// InApp returns path relative to the application root for display. Paths
// outside the root are returned unchanged.
func (r *Resolver) InApp(path string) string {
	if path == r.appRoot {
		return "."
	}
	if rest, ok := strings.CutPrefix(path, r.appRoot+string(filepath.Separator)); ok {
		return filepath.ToSlash(rest)
	}
	return path
}

// canonical resolves symlinks when the path exists on the real filesystem
// and falls back to a cleaned absolute path otherwise.
func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return filepath.Clean(path)
}
