// Package testutil provides fixtures for pubmirror tests.
//
// Key components:
//   - FileTree: declarative description of an application tree
//   - NewApp: materializes a FileTree in a canonical temporary app root
//   - Assert helpers for links, copies and removals
//
// All test data should be defined inline, not in external files.
package testutil
