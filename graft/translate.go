// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"path/filepath"
	"strings"
)

// Translate returns the working directory a process at workingDirectory
// should continue in once mappings are mounted, and the index of the
// mapping that decided it.
//
// The first mapping, in order, whose destination contains
// workingDirectory wins: the result is that mapping's source with the
// remaining components of workingDirectory appended. Later mappings
// are not consulted even if they match more specifically. When no
// destination contains workingDirectory, it is returned unchanged with
// index -1.
//
// Containment is decided component by component, so "/home/a" contains
// "/home/a/b" but not "/home/ab".
func Translate(mappings []Mapping, workingDirectory string) (string, int) {
	for index, mapping := range mappings {
		if rest, ok := trimPathPrefix(workingDirectory, mapping.Destination); ok {
			return joinComponents(mapping.Source, rest), index
		}
	}
	return workingDirectory, -1
}

// trimPathPrefix reports whether prefix's components are a leading run
// of path's components, and returns the components of path that follow.
func trimPathPrefix(path, prefix string) ([]string, bool) {
	pathComponents := components(path)
	prefixComponents := components(prefix)

	if len(prefixComponents) > len(pathComponents) {
		return nil, false
	}
	for i, component := range prefixComponents {
		if pathComponents[i] != component {
			return nil, false
		}
	}
	return pathComponents[len(prefixComponents):], true
}

// components splits a path into its non-empty elements. The root has
// no components.
func components(path string) []string {
	var result []string
	for _, component := range strings.Split(filepath.Clean(path), "/") {
		if component != "" {
			result = append(result, component)
		}
	}
	return result
}

func joinComponents(base string, rest []string) string {
	return filepath.Join(append([]string{base}, rest...)...)
}
