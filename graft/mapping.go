// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

// Mapping substitutes the directory tree at Source for the one at
// Destination. Both paths are canonical: absolute, symlink-free, and
// without "." or ".." components.
type Mapping struct {
	Destination string `json:"destination" yaml:"destination"`
	Source      string `json:"source" yaml:"source"`
}

// String returns the mapping in the environment form
// "source:destination".
func (m Mapping) String() string {
	return m.Source + ":" + m.Destination
}

// Set is the ordered list of mappings read from one mapping file.
// Mappings are mounted in order and the first one whose destination
// contains the working directory decides the translated directory.
type Set struct {
	// File is the canonical path of the mapping file.
	File string `json:"file" yaml:"file"`

	// Mappings is never empty for a Set returned by [Locate].
	Mappings []Mapping `json:"mappings" yaml:"mappings"`
}

// Dir returns the directory containing the mapping file. Relative
// paths in the file were resolved against it.
func (s *Set) Dir() string {
	return filepath.Dir(s.File)
}

// String joins the mappings for the GRAFT environment variable.
func (s *Set) String() string {
	parts := make([]string, len(s.Mappings))
	for i, mapping := range s.Mappings {
		parts[i] = mapping.String()
	}
	return strings.Join(parts, ";")
}

// fingerprintDomainKey separates set fingerprints from any other
// BLAKE3 keyed hash. ASCII "graft.set" zero-padded to 32 bytes.
var fingerprintDomainKey = [32]byte{
	'g', 'r', 'a', 'f', 't', '.', 's', 'e', 't', 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint returns a short identifier for the set's mappings, of
// the form "graft-<12 hex digits>". It depends only on the ordered
// mappings, not on the file they came from, so two files describing
// the same substitution share a fingerprint.
func (s *Set) Fingerprint() string {
	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		panic("graft: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	for _, mapping := range s.Mappings {
		// NUL cannot occur in a path, so the encoding is unambiguous.
		hasher.Write([]byte(mapping.Destination))
		hasher.Write([]byte{0})
		hasher.Write([]byte(mapping.Source))
		hasher.Write([]byte{0})
	}
	sum := hasher.Sum(nil)
	return "graft-" + hex.EncodeToString(sum[:6])
}
