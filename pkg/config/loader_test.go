package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty temp dir and clears env vars
// that would leak into the load.
func isolate(t *testing.T) string {
	t.Helper()
	userDir := t.TempDir()
	original := userConfigPath
	userConfigPath = func() string { return filepath.Join(userDir, "config.toml") }
	t.Cleanup(func() { userConfigPath = original })
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return userDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfigurationDefaults(t *testing.T) {
	isolate(t)
	appRoot := t.TempDir()

	cfg, err := LoadConfiguration(LoadOptions{AppRoot: appRoot})
	require.NoError(t, err)

	assert.Equal(t, appRoot, cfg.AppRoot)
	assert.Equal(t, "index.php", cfg.Index.File)
	assert.Equal(t, 25, cfg.Upload.Concurrency)
	assert.Equal(t, 800, cfg.Upload.RotateEvery)
	assert.Equal(t, int64(5), cfg.Upload.PartSizeMB)
	assert.Equal(t, 3, cfg.Upload.Attempts)
	assert.Empty(t, cfg.Catalog.Files)
	assert.Empty(t, cfg.Disks)
}

func TestLoadConfigurationProjectFile(t *testing.T) {
	isolate(t)
	appRoot := t.TempDir()
	writeFile(t, filepath.Join(appRoot, ".pubmirror.toml"), `
[catalog]
directories = ["plugins/acme/blog/public"]

[upload]
concurrency = 10

[disks.assets]
driver = "s3"
bucket = "acme-assets"
region = "eu-west-1"
use_path_style = true
`)

	cfg, err := LoadConfiguration(LoadOptions{AppRoot: appRoot})
	require.NoError(t, err)

	assert.Equal(t, []string{"plugins/acme/blog/public"}, cfg.Catalog.Directories)
	assert.Equal(t, 10, cfg.Upload.Concurrency)
	assert.Equal(t, 800, cfg.Upload.RotateEvery, "unset keys keep defaults")

	disk, err := cfg.Disk("assets")
	require.NoError(t, err)
	assert.Equal(t, "acme-assets", disk.Bucket)
	assert.Equal(t, "eu-west-1", disk.Region)
	assert.True(t, disk.UsePathStyle)
}

func TestLoadConfigurationCatalogListsAppendAcrossLayers(t *testing.T) {
	userDir := isolate(t)
	appRoot := t.TempDir()
	writeFile(t, filepath.Join(userDir, "config.toml"), `
[catalog]
files = ["manifest.json"]
`)
	writeFile(t, filepath.Join(appRoot, "pubmirror.toml"), `
[catalog]
files = ["sw.js"]
`)

	cfg, err := LoadConfiguration(LoadOptions{AppRoot: appRoot})
	require.NoError(t, err)

	assert.Equal(t, []string{"manifest.json", "sw.js"}, cfg.Catalog.Files)
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	isolate(t)
	appRoot := t.TempDir()
	t.Setenv("PUBMIRROR_UPLOAD_CONCURRENCY", "7")
	t.Setenv("PUBMIRROR_UPLOAD_ROTATE_EVERY", "100")
	t.Setenv("PUBMIRROR_DISKS_S3_DRIVER", "s3")
	t.Setenv("PUBMIRROR_DISKS_S3_BUCKET", "from-env")
	t.Setenv("PUBMIRROR_CATALOG_WILDCARDS", "vendor/*/dist,packages/*/public")

	cfg, err := LoadConfiguration(LoadOptions{AppRoot: appRoot})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Upload.Concurrency)
	assert.Equal(t, 100, cfg.Upload.RotateEvery)
	assert.Equal(t, []string{"vendor/*/dist", "packages/*/public"}, cfg.Catalog.Wildcards)
	disk, err := cfg.Disk("s3")
	require.NoError(t, err)
	assert.Equal(t, "from-env", disk.Bucket)
}

func TestLoadConfigurationOverridesWin(t *testing.T) {
	isolate(t)
	appRoot := t.TempDir()
	t.Setenv("PUBMIRROR_UPLOAD_CONCURRENCY", "7")

	cfg, err := LoadConfiguration(LoadOptions{
		AppRoot:   appRoot,
		Overrides: map[string]interface{}{"upload.concurrency": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Upload.Concurrency)
}

func TestLoadConfigurationExplicitFile(t *testing.T) {
	isolate(t)
	appRoot := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "ci.toml")
	writeFile(t, explicit, "[index]\nfile = \"app.php\"\n")

	cfg, err := LoadConfiguration(LoadOptions{AppRoot: appRoot, ConfigFile: explicit})
	require.NoError(t, err)
	assert.Equal(t, "app.php", cfg.Index.File)

	_, err = LoadConfiguration(LoadOptions{AppRoot: appRoot, ConfigFile: filepath.Join(appRoot, "missing.toml")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadConfigurationInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{
			name:    "zero_concurrency",
			content: "[upload]\nconcurrency = 0\n",
			code:    errors.ErrConfigValid,
		},
		{
			name:    "unknown_driver",
			content: "[disks.ftp]\ndriver = \"ftp\"\nbucket = \"x\"\n",
			code:    errors.ErrDiskInvalid,
		},
		{
			name:    "missing_bucket",
			content: "[disks.s3]\ndriver = \"s3\"\n",
			code:    errors.ErrDiskInvalid,
		},
		{
			name:    "malformed_toml",
			content: "[upload\n",
			code:    errors.ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			appRoot := t.TempDir()
			writeFile(t, filepath.Join(appRoot, ".pubmirror.toml"), tt.content)

			_, err := LoadConfiguration(LoadOptions{AppRoot: appRoot})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestDiskNotFound(t *testing.T) {
	cfg := &Config{Disks: map[string]DiskConfig{"b": {}, "a": {}}}
	_, err := cfg.Disk("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDiskNotFound))
	assert.Equal(t, []string{"a", "b"}, errors.GetErrorDetails(err)["known"])
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PUBMIRROR_APP_ROOT", "app_root"},
		{"PUBMIRROR_UPLOAD_CONCURRENCY", "upload.concurrency"},
		{"PUBMIRROR_UPLOAD_PART_SIZE_MB", "upload.part_size_mb"},
		{"PUBMIRROR_INDEX_FILE", "index.file"},
		{"PUBMIRROR_DISKS_S3_USE_PATH_STYLE", "disks.s3.use_path_style"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestMergeMaps(t *testing.T) {
	tests := []struct {
		name     string
		dest     map[string]interface{}
		src      map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "scalars_overwrite",
			dest:     map[string]interface{}{"app_root": "/a", "x": 1},
			src:      map[string]interface{}{"app_root": "/b"},
			expected: map[string]interface{}{"app_root": "/b", "x": 1},
		},
		{
			name: "sections_merge",
			dest: map[string]interface{}{
				"upload": map[string]interface{}{"concurrency": 25, "attempts": 3},
			},
			src: map[string]interface{}{
				"upload": map[string]interface{}{"concurrency": 5},
			},
			expected: map[string]interface{}{
				"upload": map[string]interface{}{"concurrency": 5, "attempts": 3},
			},
		},
		{
			name:     "lists_append",
			dest:     map[string]interface{}{"files": []interface{}{"a"}},
			src:      map[string]interface{}{"files": []string{"b"}},
			expected: map[string]interface{}{"files": []interface{}{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeMaps(tt.dest, tt.src)
			assert.Equal(t, tt.expected, tt.dest)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, "", cfg.AppRoot)
	assert.Equal(t, 25, cfg.Upload.Concurrency)
	assert.Equal(t, 5, cfg.Upload.PartConcurrency)
	assert.Equal(t, "index.php", cfg.Index.File)
	assert.Contains(t, GetDefaultsContent(), "[upload]")
}
