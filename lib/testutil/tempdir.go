// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir returns a fresh temporary directory with every symlink in
// its path resolved. The directory is removed when the test completes.
func TempDir(t *testing.T) string {
	t.Helper()
	directory, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temporary directory: %v", err)
	}
	return directory
}

// Mkdirs creates each relative directory (and its parents) under root.
func Mkdirs(t *testing.T, root string, directories ...string) {
	t.Helper()
	for _, directory := range directories {
		if err := os.MkdirAll(filepath.Join(root, directory), 0755); err != nil {
			t.Fatalf("creating %s: %v", directory, err)
		}
	}
}

// WriteFile writes content to path, creating missing parent
// directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
