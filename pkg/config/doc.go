// Package config handles configuration management for pubmirror.
// It supports loading configuration from multiple sources including
// embedded defaults, TOML files, environment variables, and command-line flags.
//
// Sources are layered in this order, later layers winning for scalar values
// and appending for lists:
//
//  1. embedded/defaults.toml
//  2. $XDG_CONFIG_HOME/pubmirror/config.toml
//  3. <app_root>/.pubmirror.toml or <app_root>/pubmirror.toml
//  4. PUBMIRROR_* environment variables
//  5. command-line overrides
package config
