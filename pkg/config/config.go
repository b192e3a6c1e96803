package config

import (
	"sort"

	"github.com/arthur-debert/pubmirror/pkg/errors"
)

// Config is the effective configuration of a run.
type Config struct {
	AppRoot string                `koanf:"app_root" toml:"app_root" yaml:"app_root"`
	Catalog CatalogConfig         `koanf:"catalog" toml:"catalog" yaml:"catalog"`
	Index   IndexConfig           `koanf:"index" toml:"index" yaml:"index"`
	Upload  UploadConfig          `koanf:"upload" toml:"upload" yaml:"upload"`
	Disks   map[string]DiskConfig `koanf:"disks" toml:"disks,omitempty" yaml:"disks,omitempty"`
}

// CatalogConfig lists entries appended to the built-in catalog.
type CatalogConfig struct {
	Files       []string `koanf:"files" toml:"files" yaml:"files"`
	Directories []string `koanf:"directories" toml:"directories" yaml:"directories"`
	Wildcards   []string `koanf:"wildcards" toml:"wildcards" yaml:"wildcards"`
}

// IndexConfig configures the front-controller rewrite.
type IndexConfig struct {
	File string `koanf:"file" toml:"file" yaml:"file"`
}

// UploadConfig configures the upload engine.
type UploadConfig struct {
	Concurrency     int   `koanf:"concurrency" toml:"concurrency" yaml:"concurrency"`
	RotateEvery     int   `koanf:"rotate_every" toml:"rotate_every" yaml:"rotate_every"`
	PartSizeMB      int64 `koanf:"part_size_mb" toml:"part_size_mb" yaml:"part_size_mb"`
	PartConcurrency int   `koanf:"part_concurrency" toml:"part_concurrency" yaml:"part_concurrency"`
	Attempts        int   `koanf:"attempts" toml:"attempts" yaml:"attempts"`
}

// DiskConfig describes a storage backend uploads can target. Credentials
// are passed through to the driver untouched.
type DiskConfig struct {
	Driver       string `koanf:"driver" toml:"driver" yaml:"driver"`
	Bucket       string `koanf:"bucket" toml:"bucket" yaml:"bucket"`
	Region       string `koanf:"region" toml:"region" yaml:"region"`
	Endpoint     string `koanf:"endpoint" toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Key          string `koanf:"key" toml:"key,omitempty" yaml:"key,omitempty"`
	Secret       string `koanf:"secret" toml:"secret,omitempty" yaml:"secret,omitempty"`
	UsePathStyle bool   `koanf:"use_path_style" toml:"use_path_style" yaml:"use_path_style"`
}

// DriverS3 is the only storage driver pubmirror ships.
const DriverS3 = "s3"

// Disk returns the named disk configuration.
func (c *Config) Disk(name string) (DiskConfig, error) {
	disk, ok := c.Disks[name]
	if !ok {
		return DiskConfig{}, errors.Newf(errors.ErrDiskNotFound, "disk %q is not configured", name).
			WithDetail("known", c.DiskNames())
	}
	return disk, nil
}

// DiskNames returns the configured disk names, sorted.
func (c *Config) DiskNames() []string {
	names := make([]string, 0, len(c.Disks))
	for name := range c.Disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks value ranges and disk definitions.
func (c *Config) Validate() error {
	if c.Upload.Concurrency <= 0 {
		return errors.Newf(errors.ErrConfigValid, "upload.concurrency must be positive, got %d", c.Upload.Concurrency)
	}
	if c.Upload.RotateEvery <= 0 {
		return errors.Newf(errors.ErrConfigValid, "upload.rotate_every must be positive, got %d", c.Upload.RotateEvery)
	}
	if c.Upload.Attempts < 1 {
		return errors.Newf(errors.ErrConfigValid, "upload.attempts must be at least 1, got %d", c.Upload.Attempts)
	}
	if c.Upload.PartSizeMB < 5 {
		return errors.Newf(errors.ErrConfigValid, "upload.part_size_mb must be at least 5, got %d", c.Upload.PartSizeMB)
	}
	if c.Upload.PartConcurrency <= 0 {
		return errors.Newf(errors.ErrConfigValid, "upload.part_concurrency must be positive, got %d", c.Upload.PartConcurrency)
	}
	if c.Index.File == "" {
		return errors.New(errors.ErrConfigValid, "index.file must not be empty")
	}
	for _, name := range c.DiskNames() {
		disk := c.Disks[name]
		if disk.Driver != DriverS3 {
			return errors.Newf(errors.ErrDiskInvalid, "disk %q has unsupported driver %q", name, disk.Driver)
		}
		if disk.Bucket == "" {
			return errors.Newf(errors.ErrDiskInvalid, "disk %q has no bucket", name)
		}
	}
	return nil
}
