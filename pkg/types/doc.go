// Package types defines the core types and interfaces used throughout pubmirror.
// This includes the FS interface every engine performs I/O through, the
// options recognized by a mirror run, and the per-entry results the engines
// report back to the CLI and to tests.
package types
