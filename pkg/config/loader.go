package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "PUBMIRROR_"

// ProjectConfigFiles are looked up, in order, in the application root.
var ProjectConfigFiles = []string{".pubmirror.toml", "pubmirror.toml"}

// userConfigPath is a variable so tests can point it elsewhere.
var userConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "pubmirror", "config.toml")
}

// LoadOptions selects the sources of a configuration load.
type LoadOptions struct {
	// AppRoot is where the project config file is searched. Empty means
	// the app_root key from lower layers, then the working directory.
	AppRoot string

	// ConfigFile replaces the project config lookup when set.
	ConfigFile string

	// Overrides are flat dotted keys applied last, e.g. "upload.concurrency".
	Overrides map[string]interface{}
}

// LoadConfiguration loads and validates the layered configuration.
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	merged := map[string]interface{}{}

	// 1. Embedded defaults
	defaults, err := loadLayer(&rawBytesProvider{bytes: defaultConfig}, toml.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	mergeMaps(merged, defaults)

	// 2. User config
	if path := userConfigPath(); fileExists(path) {
		layer, err := loadLayer(file.Provider(path), toml.Parser())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded user config")
		mergeMaps(merged, layer)
	}

	// 3. Project config
	projectPath := opts.ConfigFile
	if projectPath == "" {
		projectPath = findProjectConfig(resolveAppRoot(opts.AppRoot, merged))
	} else if !fileExists(projectPath) {
		return nil, errors.Newf(errors.ErrConfigLoad, "config file %s does not exist", projectPath)
	}
	if projectPath != "" {
		layer, err := loadLayer(file.Provider(projectPath), toml.Parser())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", projectPath)
		}
		logger.Debug().Str("path", projectPath).Msg("Loaded project config")
		mergeMaps(merged, layer)
	}

	// 4. Environment
	envLayer, err := loadLayer(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}
	mergeMaps(merged, envLayer)

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load merged config")
	}

	// 5. Command-line overrides replace instead of append
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	if opts.AppRoot != "" {
		cfg.AppRoot = opts.AppRoot
	}
	if cfg.AppRoot, err = absAppRoot(cfg.AppRoot); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("appRoot", cfg.AppRoot).
		Strs("disks", cfg.DiskNames()).
		Int("concurrency", cfg.Upload.Concurrency).
		Msg("Configuration loaded")

	return cfg, nil
}

// Defaults returns the embedded default configuration alone, without
// validation or app root resolution.
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func loadLayer(provider koanf.Provider, parser koanf.Parser) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(provider, parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// envKey maps PUBMIRROR_UPLOAD_ROTATE_EVERY to upload.rotate_every and
// PUBMIRROR_DISKS_S3_BUCKET to disks.s3.bucket. Only the section separator
// becomes a dot so multi-word keys survive.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"catalog", "index", "upload"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	if strings.HasPrefix(key, "disks_") {
		rest := strings.TrimPrefix(key, "disks_")
		if name, field, ok := strings.Cut(rest, "_"); ok {
			return "disks." + name + "." + field
		}
	}
	return key
}

func resolveAppRoot(explicit string, merged map[string]interface{}) string {
	if explicit != "" {
		return explicit
	}
	if root, ok := merged["app_root"].(string); ok && root != "" {
		return root
	}
	return "."
}

func findProjectConfig(appRoot string) string {
	for _, name := range ProjectConfigFiles {
		path := filepath.Join(appRoot, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func absAppRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrConfigLoad, "failed to determine working directory")
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigValid, "invalid app_root %s", root)
	}
	return abs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = appendSlices(destVal, srcVal)
			continue
		}

		dest[key] = srcVal
	}
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func appendSlices(dest, src interface{}) interface{} {
	destSlice := toInterfaceSlice(dest)
	srcSlice := toInterfaceSlice(src)
	return append(destSlice, srcSlice...)
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}
