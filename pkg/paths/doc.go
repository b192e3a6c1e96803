// Package paths resolves the locations a mirror run works with.
//
// It handles:
//
//   - Canonicalizing the application root and the destination root
//   - Creating the destination root on first use (memoized per run)
//   - Expanding wildcard catalog entries against the live filesystem
//   - Computing POSIX-style relative paths and relative symlink targets
//
// # Wildcards
//
// A wildcard entry contains `*` segments. The first `*` is replaced by the
// name of every directory found at that position, and the expansion recurses
// while a `*` remains:
//
//	for entry := range paths.ExpandWildcard(fs, "/app", "modules/*/assets") {
//	    // modules/backend/assets, modules/system/assets, ...
//	}
//
// Expansion is lazy and re-scans the filesystem every time the sequence is
// ranged over.
package paths
