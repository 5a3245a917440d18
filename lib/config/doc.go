// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides tool configuration loading for graft.
//
// Configuration is loaded from a single file specified by either the
// GRAFT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. Unlike the
// .graft mapping files, the tool configuration is optional: with
// neither set, [Default] applies.
//
// Files are YAML; files ending in .json or .jsonc are accepted with
// comments and trailing commas. Variable expansion is performed on
// path fields after loading: ${HOME} and ${VAR:-default} patterns are
// expanded. No environment variable overrides a config value.
//
// This package depends on no other graft packages.
package config
