package paths_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/arthur-debert/pubmirror/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

func TestResolver_Destination(t *testing.T) {
	tests := []struct {
		name     string
		raw      func(appRoot, other string) string
		expected func(appRoot, other string) string
	}{
		{
			name:     "relative destination is joined to app root",
			raw:      func(_, _ string) string { return "public" },
			expected: func(appRoot, _ string) string { return filepath.Join(appRoot, "public") },
		},
		{
			name:     "nested relative destination is created",
			raw:      func(_, _ string) string { return "build/web/public" },
			expected: func(appRoot, _ string) string { return filepath.Join(appRoot, "build", "web", "public") },
		},
		{
			name:     "absolute destination is kept",
			raw:      func(_, other string) string { return filepath.Join(other, "site") },
			expected: func(_, other string) string { return filepath.Join(other, "site") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appRoot, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)
			other, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)

			r := paths.NewResolver(filesystem.NewOS(), appRoot, tt.raw(appRoot, other))
			dest, err := r.Destination()
			require.NoError(t, err)
			assert.Equal(t, tt.expected(appRoot, other), dest)

			info, err := os.Stat(dest)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestResolver_DestinationIsMemoized(t *testing.T) {
	appRoot, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	r := paths.NewResolver(filesystem.NewOS(), appRoot, "public")
	first, err := r.Destination()
	require.NoError(t, err)

	// Removing the directory must not trigger a second resolution.
	require.NoError(t, os.RemoveAll(first))
	second, err := r.Destination()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoDirExists(t, second)
}

func TestResolver_DestinationFailure(t *testing.T) {
	appRoot, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	// A regular file blocks directory creation.
	require.NoError(t, os.WriteFile(filepath.Join(appRoot, "blocker"), []byte("x"), 0644))

	r := paths.NewResolver(filesystem.NewOS(), appRoot, "blocker/public")
	_, err = r.Destination()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirCreate))

	_, err = paths.NewResolver(filesystem.NewOS(), appRoot, " ").Destination()
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolver_SourceTargetInApp(t *testing.T) {
	appRoot, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	r := paths.NewResolver(filesystem.NewOS(), appRoot, "public")
	assert.Equal(t, filepath.Join(appRoot, "storage", "app", "media"), r.Source("storage/app/media"))

	target, err := r.Target("storage/app/media")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "public", "storage", "app", "media"), target)

	assert.Equal(t, "storage/app/media", r.InApp(r.Source("storage/app/media")))
	assert.Equal(t, ".", r.InApp(appRoot))
	assert.Equal(t, "/elsewhere", r.InApp("/elsewhere"))
}

func TestExpandWildcard(t *testing.T) {
	appRoot := t.TempDir()
	mkdirs(t, appRoot,
		"modules/alpha/assets",
		"modules/beta/assets",
		"modules/gamma/views",
		"plugins/acme/blog/assets",
		"plugins/acme/shop/formwidgets/cart/assets",
		"plugins/acme/shop/formwidgets/list/resources",
	)
	require.NoError(t, os.WriteFile(filepath.Join(appRoot, "modules", "README"), []byte("x"), 0644))

	fs := filesystem.NewOS()

	tests := []struct {
		pattern  string
		expected []string
	}{
		{"modules/*/assets", []string{"modules/alpha/assets", "modules/beta/assets"}},
		{"modules/*/resources", nil},
		{"plugins/*/*/assets", []string{"plugins/acme/blog/assets"}},
		{"plugins/*/*/formwidgets/*/assets", []string{"plugins/acme/shop/formwidgets/cart/assets"}},
		{"themes/*/assets", nil},
		{"modules/alpha/assets", []string{"modules/alpha/assets"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := slices.Collect(paths.ExpandWildcard(fs, appRoot, tt.pattern))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandWildcard_Restartable(t *testing.T) {
	appRoot := t.TempDir()
	mkdirs(t, appRoot, "themes/demo/assets")

	seq := paths.ExpandWildcard(filesystem.NewOS(), appRoot, "themes/*/assets")
	assert.Equal(t, []string{"themes/demo/assets"}, slices.Collect(seq))

	mkdirs(t, appRoot, "themes/other/assets")
	assert.Equal(t, []string{"themes/demo/assets", "themes/other/assets"}, slices.Collect(seq))

	// Early break stops the walk.
	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestRelative(t *testing.T) {
	tests := []struct {
		from, to, expected string
	}{
		{"/app/public/storage/app/media", "/app/storage/app/media", "../../../../storage/app/media"},
		{"/app/public", "/app/storage", "../storage"},
		{"/app/public/", "/app/public/x", "x"},
		{"/app", "/app", ""},
		{`C:\app\public`, `C:\app\robots.txt`, "../robots.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, paths.Relative(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRelativePath_FileUsesDirectory(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "public", "storage")
	from := filepath.Join(root, "public", "index.php")
	require.NoError(t, os.WriteFile(from, []byte("<?php"), 0644))

	rel := paths.RelativePath(filesystem.NewOS(), from, filepath.Join(root, "storage"))
	assert.Equal(t, "../storage", rel)
}

func TestLinkTarget(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	mkdirs(t, root, "storage/app/media", "public/storage/app")
	require.NoError(t, os.WriteFile(filepath.Join(root, "storage/app/media/photo.jpg"), []byte("jpg"), 0644))

	fs := filesystem.NewOS()
	source := filepath.Join(root, "storage", "app", "media")
	link := filepath.Join(root, "public", "storage", "app", "media")

	// The link path does not exist yet, so the raw computation has one
	// level too many.
	assert.Equal(t, "../../../../storage/app/media", paths.RelativePath(fs, link, source))

	target := paths.LinkTarget(fs, link, source)
	assert.Equal(t, "../../../storage/app/media", target)

	require.NoError(t, os.Symlink(target, link))
	data, err := os.ReadFile(filepath.Join(link, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpg", string(data))
}

func TestLinkTarget_File(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	mkdirs(t, root, "public")
	require.NoError(t, os.WriteFile(filepath.Join(root, "robots.txt"), []byte("User-agent: *"), 0644))

	fs := filesystem.NewOS()
	link := filepath.Join(root, "public", "robots.txt")
	target := paths.LinkTarget(fs, link, filepath.Join(root, "robots.txt"))
	assert.Equal(t, "../robots.txt", target)

	require.NoError(t, os.Symlink(target, link))
	data, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *", string(data))
}

func TestResolver_DryRunDoesNotCreate(t *testing.T) {
	appRoot, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	r := paths.NewResolver(filesystem.NewOS(), appRoot, "public")
	r.DryRun = true
	dest, err := r.Destination()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appRoot, "public"), dest)
	assert.NoDirExists(t, dest)
}
