// Package index fixes the bootstrap references of a copied front controller.
//
// A copied front controller sits deeper than the file it was copied from,
// so every `/bootstrap/<name>.php'` reference it holds is prefixed with one
// `/..` per path segment between the application root and the destination.
package index

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/paths"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// DefaultFile is the front controller name used when none is configured.
const DefaultFile = "index.php"

var bootstrapRef = regexp.MustCompile(`/bootstrap/(.*?).php'`)

// Hook may replace the rewrite. It receives the front controller path and
// its current contents; a non-empty result is written verbatim, an empty
// one lets the default substitution run.
type Hook func(indexPath, contents string) (string, error)

// Rewriter rewrites the front controller at the destination root.
type Rewriter struct {
	fs   types.FS
	file string
	hook Hook
}

// NewRewriter creates a Rewriter for the named front controller file.
func NewRewriter(fsys types.FS, file string, hook Hook) *Rewriter {
	if file == "" {
		file = DefaultFile
	}
	return &Rewriter{fs: fsys, file: file, hook: hook}
}

// Path returns the front controller location under destRoot.
func (r *Rewriter) Path(destRoot string) string {
	return filepath.Join(destRoot, r.file)
}

// Rewrite updates the front controller under destRoot if it is a regular
// file. A symlink is never written through: it points at the application's
// own front controller. It reports whether a rewrite happened.
func (r *Rewriter) Rewrite(appRoot, destRoot string) (bool, error) {
	log := logging.GetLogger("index")
	path := r.Path(destRoot)

	info, err := r.fs.Lstat(path)
	if err == nil && info.Mode()&fs.ModeSymlink != 0 {
		log.Warn().Str("path", path).Msg("Front controller is a link, not rewriting")
		return false, nil
	}
	if err != nil || !info.Mode().IsRegular() {
		log.Debug().Str("path", path).Msg("No front controller to rewrite")
		return false, nil
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrIndexRewrite, "cannot read %s", path).
			WithDetail("path", path)
	}
	contents := string(data)

	updated := ""
	if r.hook != nil {
		updated, err = r.hook(path, contents)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrIndexRewrite, "index hook failed for %s", path).
				WithDetail("path", path)
		}
	}
	if updated == "" {
		updated = Substitute(contents, Depth(appRoot, filepath.Dir(path)))
	} else {
		log.Debug().Str("path", path).Msg("Index hook supplied the contents")
	}

	if err := r.fs.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, errors.ErrIndexRewrite, "cannot write %s", path).
			WithDetail("path", path)
	}

	log.Info().Str("path", path).Msg("Front controller rewritten")
	return true, nil
}

// Depth is the number of path segments of the relative path leading from
// appRoot to dir.
func Depth(appRoot, dir string) int {
	return len(strings.Split(paths.Relative(appRoot, dir), "/"))
}

// Substitute prefixes every bootstrap reference in contents with depth
// `/..` segments.
func Substitute(contents string, depth int) string {
	prefix := strings.Repeat("/..", depth)
	return bootstrapRef.ReplaceAllStringFunc(contents, func(match string) string {
		return prefix + match
	})
}
