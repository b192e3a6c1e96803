package genconfig

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ProjectFile is the file --write creates in the application root.
const ProjectFile = ".pubmirror.toml"

// GenConfigOptions holds options for the genconfig command
type GenConfigOptions struct {
	AppRoot string
	Format  string

	// Effective renders Config instead of the embedded defaults.
	Effective bool
	Config    *config.Config

	Write bool
}

// GenConfigResult is what genconfig produced.
type GenConfigResult struct {
	ConfigContent string
	FilesWritten  []string
}

// GenConfig outputs or writes a configuration file
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	if opts.Format == "" {
		opts.Format = FormatTOML
	}
	if opts.Write && opts.Format != FormatTOML {
		return nil, errors.Newf(errors.ErrInvalidInput, "--write only supports %s", FormatTOML)
	}

	content, err := render(opts)
	if err != nil {
		return nil, err
	}

	result := &GenConfigResult{
		ConfigContent: content,
		FilesWritten:  []string{},
	}

	if !opts.Write {
		logger.Debug().Str("format", opts.Format).Msg("Outputting config to stdout")
		return result, nil
	}

	targetPath := filepath.Join(opts.AppRoot, ProjectFile)
	if _, err := os.Stat(targetPath); err == nil {
		logger.Warn().Str("path", targetPath).Msg("Config file already exists, skipping")
		return result, nil
	}

	if err := os.WriteFile(targetPath, []byte(content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileAccess, "failed to write config to %s", targetPath)
	}

	logger.Info().Str("path", targetPath).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, targetPath)
	return result, nil
}

// render keeps the commented embedded file for plain TOML defaults and
// marshals a Config for everything else.
func render(opts GenConfigOptions) (string, error) {
	if !opts.Effective && opts.Format == FormatTOML {
		return config.GetDefaultsContent(), nil
	}

	cfg := opts.Config
	if !opts.Effective || cfg == nil {
		var err error
		if cfg, err = config.Defaults(); err != nil {
			return "", err
		}
	}

	switch opts.Format {
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return buf.String(), nil
	case FormatYAML:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return string(out), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown format %q", opts.Format).
			WithDetail("valid", []string{FormatTOML, FormatYAML})
	}
}
