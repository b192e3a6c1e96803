package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	perrors "github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontController = `<?php
require __DIR__.'/bootstrap/autoload.php';
$app = require_once __DIR__.'/bootstrap/app.php';
$kernel = $app->make('Illuminate\Contracts\Http\Kernel');
`

func TestDepth(t *testing.T) {
	tests := []struct {
		appRoot, dir string
		expected     int
	}{
		{"/app", "/app/public", 1},
		{"/app/", "/app/build/web/public", 3},
		{"/app", "/srv/www", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Depth(tt.appRoot, tt.dir), tt.dir)
	}
}

func TestSubstitute(t *testing.T) {
	out := Substitute(frontController, 1)
	assert.Contains(t, out, `require __DIR__.'/../bootstrap/autoload.php';`)
	assert.Contains(t, out, `require_once __DIR__.'/../bootstrap/app.php';`)
	assert.Contains(t, out, `'Illuminate\Contracts\Http\Kernel'`)

	out = Substitute(frontController, 2)
	assert.Contains(t, out, `__DIR__.'/../../bootstrap/app.php'`)

	// References not closed by a quote are left alone.
	assert.Equal(t, "/bootstrap/app.php", Substitute("/bootstrap/app.php", 1))
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	appRoot := t.TempDir()
	dest := filepath.Join(appRoot, "public")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "index.php"), []byte(frontController), 0644))
	return appRoot, dest
}

func TestRewrite_Default(t *testing.T) {
	appRoot, dest := setup(t)

	r := NewRewriter(filesystem.NewOS(), "", nil)
	ok, err := r.Rewrite(appRoot, dest)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dest, "index.php"))
	require.NoError(t, err)
	assert.Equal(t, Substitute(frontController, 1), string(data))
}

func TestRewrite_HookReplaces(t *testing.T) {
	appRoot, dest := setup(t)

	var seenPath string
	r := NewRewriter(filesystem.NewOS(), "index.php", func(path, contents string) (string, error) {
		seenPath = path
		assert.Equal(t, frontController, contents)
		return "<?php // custom", nil
	})
	ok, err := r.Rewrite(appRoot, dest)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dest, "index.php"), seenPath)

	data, err := os.ReadFile(filepath.Join(dest, "index.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php // custom", string(data))
}

func TestRewrite_HookDeclines(t *testing.T) {
	appRoot, dest := setup(t)

	r := NewRewriter(filesystem.NewOS(), "index.php", func(string, string) (string, error) {
		return "", nil
	})
	_, err := r.Rewrite(appRoot, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "index.php"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/../bootstrap/app.php")
}

func TestRewrite_HookError(t *testing.T) {
	appRoot, dest := setup(t)

	r := NewRewriter(filesystem.NewOS(), "index.php", func(string, string) (string, error) {
		return "", errors.New("hook exploded")
	})
	_, err := r.Rewrite(appRoot, dest)
	require.Error(t, err)
	assert.True(t, perrors.IsErrorCode(err, perrors.ErrIndexRewrite))
}

func TestRewrite_MissingFile(t *testing.T) {
	appRoot := t.TempDir()
	r := NewRewriter(filesystem.NewOS(), "index.php", nil)
	ok, err := r.Rewrite(appRoot, filepath.Join(appRoot, "public"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRewrite_SkipsLinkedFrontController(t *testing.T) {
	appRoot := t.TempDir()
	source := filepath.Join(appRoot, "index.php")
	require.NoError(t, os.WriteFile(source, []byte(frontController), 0644))
	dest := filepath.Join(appRoot, "public")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.Symlink(source, filepath.Join(dest, "index.php")))

	r := NewRewriter(filesystem.NewOS(), "index.php", nil)
	ok, err := r.Rewrite(appRoot, dest)
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, frontController, string(data), "the application's front controller is left alone")
}
