package testutil

import (
	"os"
	"testing"
)

// AssertSymlink fails unless path is a symlink whose raw target is target.
func AssertSymlink(t *testing.T, path, target string) {
	t.Helper()

	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("Expected %s to be a symlink: %v", path, err)
		return
	}
	if got != target {
		t.Errorf("Symlink %s points to %q, expected %q", path, got, target)
	}
}

// AssertRegularFile fails unless path is a regular file (not a link) with
// the given content.
func AssertRegularFile(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("Expected file %s to exist: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("Expected %s to be a regular file, got mode %s", path, info.Mode())
		return
	}
	AssertContent(t, path, content)
}

// AssertContent fails unless reading path, following links, yields content.
func AssertContent(t *testing.T, path, content string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Cannot read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("Content of %s is %q, expected %q", path, data, content)
	}
}

// AssertExists fails unless something, even a dangling link, is at path.
func AssertExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err != nil {
		t.Errorf("Expected %s to exist: %v", path, err)
	}
}

// AssertNotExists fails if anything, even a dangling link, is at path.
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s not to exist (err=%v)", path, err)
	}
}
