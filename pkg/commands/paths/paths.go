// Package paths lists the effective catalog of a run with every wildcard
// expanded. It never touches the filesystem beyond reading it.
package paths

import (
	"path/filepath"

	"github.com/arthur-debert/pubmirror/pkg/catalog"
	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/arthur-debert/pubmirror/pkg/types"
)

// ListOptions selects the catalog to list.
type ListOptions struct {
	Config    *config.Config
	FS        types.FS
	Extenders []catalog.Extender
}

// Listing is one concrete catalog entry.
type Listing struct {
	Kind   types.EntryKind
	Entry  string
	Exists bool
}

// ListResult holds the listing in processing order.
type ListResult struct {
	AppRoot string
	Entries []Listing
}

// List expands the catalog against the application root.
func List(opts ListOptions) *ListResult {
	extenders := append([]catalog.Extender{catalog.FromConfig(opts.Config.Catalog)}, opts.Extenders...)
	cat := catalog.Build(extenders...)

	result := &ListResult{AppRoot: opts.Config.AppRoot}
	for kind, entry := range cat.Expand(opts.FS, opts.Config.AppRoot) {
		_, err := opts.FS.Stat(filepath.Join(opts.Config.AppRoot, filepath.FromSlash(entry)))
		result.Entries = append(result.Entries, Listing{Kind: kind, Entry: entry, Exists: err == nil})
	}

	logger := logging.GetLogger("commands.paths")
	logger.Debug().
		Int("entries", len(result.Entries)).
		Msg("Catalog listed")
	return result
}
