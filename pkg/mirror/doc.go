// Package mirror replicates catalog entries from the application root into
// the destination root, and removes them again in delete mode.
//
// Each entry goes through the same steps:
//
//  1. Resolve the absolute source and destination paths
//  2. Apply the skip guards (missing source, existing destination)
//  3. Test the ignore patterns against the absolute source path
//  4. Remove (delete mode) or link/copy, walking directories depth-first
//
// Skips are outcomes, not errors. Filesystem failures abort the run and are
// returned together with the results gathered so far.
package mirror
