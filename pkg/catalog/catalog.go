// Package catalog holds the declarative list of paths a mirror run
// replicates: fixed files, fixed directories and wildcard directory patterns.
package catalog

import (
	"iter"

	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/paths"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// Catalog is the ordered set of entries to mirror. All entries are relative
// to the application root and use forward slashes.
type Catalog struct {
	Files       []string
	Directories []string
	Wildcards   []string
}

// Extender mutates a catalog while it is being built. Extenders run once per
// run, in order, before the catalog is handed to the engine.
type Extender func(*Catalog)

var (
	defaultFiles = []string{
		".htaccess",
		"index.php",
		"favicon.ico",
		"robots.txt",
		"humans.txt",
		"sitemap.xml",
	}

	defaultDirectories = []string{
		"storage/app/uploads/public",
		"storage/app/media",
		"storage/app/resized",
		"storage/temp/public",
	}

	defaultWildcards = []string{
		"modules/*/assets",
		"modules/*/resources",
		"modules/*/behaviors/*/assets",
		"modules/*/behaviors/*/resources",
		"modules/*/widgets/*/assets",
		"modules/*/widgets/*/resources",
		"modules/*/formwidgets/*/assets",
		"modules/*/formwidgets/*/resources",
		"modules/*/reportwidgets/*/assets",
		"modules/*/reportwidgets/*/resources",

		"plugins/*/*/assets",
		"plugins/*/*/resources",
		"plugins/*/*/behaviors/*/assets",
		"plugins/*/*/behaviors/*/resources",
		"plugins/*/*/reportwidgets/*/assets",
		"plugins/*/*/reportwidgets/*/resources",
		"plugins/*/*/formwidgets/*/assets",
		"plugins/*/*/formwidgets/*/resources",
		"plugins/*/*/widgets/*/assets",
		"plugins/*/*/widgets/*/resources",

		"themes/*/assets",
		"themes/*/resources",
	}
)

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Files:       clone(defaultFiles),
		Directories: clone(defaultDirectories),
		Wildcards:   clone(defaultWildcards),
	}
}

// Build returns the built-in catalog after applying every extender once.
func Build(extenders ...Extender) *Catalog {
	c := Default()
	for _, extend := range extenders {
		if extend != nil {
			extend(c)
		}
	}

	logger := logging.GetLogger("catalog")
	logger.Debug().
		Int("files", len(c.Files)).
		Int("directories", len(c.Directories)).
		Int("wildcards", len(c.Wildcards)).
		Msg("Catalog built")

	return c
}

// FromConfig returns an extender appending the lists of the [catalog]
// configuration section.
func FromConfig(cc config.CatalogConfig) Extender {
	return func(c *Catalog) {
		c.Files = append(c.Files, cc.Files...)
		c.Directories = append(c.Directories, cc.Directories...)
		c.Wildcards = append(c.Wildcards, cc.Wildcards...)
	}
}

// Size is the number of unexpanded entries.
func (c *Catalog) Size() int {
	return len(c.Files) + len(c.Directories) + len(c.Wildcards)
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}

// Expand yields every concrete entry of c in processing order: files, then
// directories, then wildcard expansions. Wildcards are expanded lazily while
// the sequence is consumed.
func (c *Catalog) Expand(fs types.FS, appRoot string) iter.Seq2[types.EntryKind, string] {
	return func(yield func(types.EntryKind, string) bool) {
		for _, f := range c.Files {
			if !yield(types.KindFile, f) {
				return
			}
		}
		for _, d := range c.Directories {
			if !yield(types.KindDirectory, d) {
				return
			}
		}
		for _, w := range c.Wildcards {
			for entry := range paths.ExpandWildcard(fs, appRoot, w) {
				if !yield(types.KindWildcard, entry) {
					return
				}
			}
		}
	}
}
