// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Parse reads mappings from the contents of a mapping file located in
// dir. Each line is "destination:source", split at the first colon.
// Parsing stops at the first line without a colon, so a trailing
// blank line (or anything after it) is ignored.
//
// Relative paths are resolved against dir, not the process working
// directory, and every path is canonicalized through filesystem. A
// path that cannot be canonicalized is an error rather than a skipped
// line. A file with no mappings returns an empty slice and no error.
func Parse(filesystem Filesystem, dir string, content []byte) ([]Mapping, error) {
	var mappings []Mapping

	lines := strings.Split(string(content), "\n")
	for index, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		destination, source, found := strings.Cut(line, ":")
		if !found {
			break
		}

		canonicalDestination, err := canonicalize(filesystem, dir, destination)
		if err != nil {
			return nil, fmt.Errorf("line %d: destination: %w", index+1, err)
		}
		canonicalSource, err := canonicalize(filesystem, dir, source)
		if err != nil {
			return nil, fmt.Errorf("line %d: source: %w", index+1, err)
		}

		mappings = append(mappings, Mapping{
			Destination: canonicalDestination,
			Source:      canonicalSource,
		})
	}

	return mappings, nil
}

// canonicalize resolves path relative to dir and removes symlinks.
// An empty path names dir itself.
func canonicalize(filesystem Filesystem, dir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	canonical, err := filesystem.Canonicalize(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	return canonical, nil
}
