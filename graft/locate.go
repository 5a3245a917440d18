// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
	"syscall"
)

// DefaultConfigName is the mapping file name searched for in each
// ancestor directory.
const DefaultConfigName = ".graft"

// Ancestors yields dir and then each of its parents, innermost first,
// ending with the filesystem root. dir must be absolute and clean.
// The sequence is finite: each step removes one path component.
func Ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

// Locator finds the nearest mapping file above a starting directory.
type Locator struct {
	// Filesystem is read for mapping files and used to canonicalize
	// their paths. Defaults to [OSFilesystem].
	Filesystem Filesystem

	// Name is the mapping file name. Defaults to [DefaultConfigName].
	Name string

	// Logger receives one debug record per directory examined.
	Logger *slog.Logger
}

// Locate searches start and each ancestor for a mapping file that
// parses to at least one mapping, and returns the first such set.
// Missing and empty files are skipped, as is a directory with the
// mapping file's name. A file that exists but cannot be read, or that names a path that does not exist, stops the search
// with a [KindConfigParse] error. Reaching the root without a match
// returns a [KindConfigNotFound] error.
func (l *Locator) Locate(start string) (*Set, error) {
	filesystem := l.Filesystem
	if filesystem == nil {
		filesystem = OSFilesystem{}
	}
	name := l.Name
	if name == "" {
		name = DefaultConfigName
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !filepath.IsAbs(start) {
		return nil, errorf(KindConfigNotFound, "locate "+name, start, "starting directory is not absolute")
	}

	for dir := range Ancestors(filepath.Clean(start)) {
		file := filepath.Join(dir, name)

		content, err := filesystem.ReadFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("no mapping file", "path", file)
				continue
			}
			if errors.Is(err, syscall.EISDIR) {
				logger.Debug("mapping file is a directory", "path", file)
				continue
			}
			return nil, newError(KindConfigParse, "read", file, err)
		}

		mappings, err := Parse(filesystem, dir, content)
		if err != nil {
			return nil, newError(KindConfigParse, "parse", file, err)
		}
		if len(mappings) == 0 {
			logger.Debug("empty mapping file", "path", file)
			continue
		}

		logger.Debug("found mapping file", "path", file, "mappings", len(mappings))
		return &Set{File: file, Mappings: mappings}, nil
	}

	return nil, newError(KindConfigNotFound, "locate "+name, start,
		fmt.Errorf("no %s found in this directory or any parent", name))
}
