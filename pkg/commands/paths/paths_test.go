package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/catalog"
	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "demo", "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "robots.txt"), []byte("x"), 0644))

	cfg := &config.Config{AppRoot: root, Catalog: config.CatalogConfig{Files: []string{"manifest.json"}}}
	result := List(ListOptions{
		Config: cfg,
		FS:     filesystem.NewOS(),
		Extenders: []catalog.Extender{func(c *catalog.Catalog) {
			c.Files = c.Files[3:]
			c.Directories = c.Directories[:1]
		}},
	})

	assert.Equal(t, root, result.AppRoot)
	assert.Equal(t, []Listing{
		{Kind: types.KindFile, Entry: "robots.txt", Exists: true},
		{Kind: types.KindFile, Entry: "humans.txt"},
		{Kind: types.KindFile, Entry: "sitemap.xml"},
		{Kind: types.KindFile, Entry: "manifest.json"},
		{Kind: types.KindDirectory, Entry: "storage/app/uploads/public"},
		{Kind: types.KindWildcard, Entry: "themes/demo/assets", Exists: true},
	}, result.Entries)
}
