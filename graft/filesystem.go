// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"os"
	"path/filepath"
)

// Filesystem is the read-only view of the filesystem used to locate
// and parse mapping files. Nothing in the locator writes or mounts.
type Filesystem interface {
	// ReadFile returns the contents of the named file. A missing file
	// must produce an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadFile(name string) ([]byte, error)

	// Canonicalize returns the absolute, symlink-free form of an
	// absolute path. The path must exist.
	Canonicalize(path string) (string, error)
}

// OSFilesystem reads the real filesystem.
type OSFilesystem struct{}

// ReadFile implements [Filesystem].
func (OSFilesystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Canonicalize implements [Filesystem] with filepath.EvalSymlinks,
// which also cleans the path and fails if any component is missing.
func (OSFilesystem) Canonicalize(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
