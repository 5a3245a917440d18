// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package graft substitutes one directory tree for another inside a
// private mount namespace and then replaces the calling process with a
// program whose working directory follows the substitution.
//
// A mapping file (".graft" by default) lists one mapping per line as
// "destination:source". [Locator] searches the starting directory and
// each ancestor for the nearest file that yields at least one
// [Mapping]; [Parse] resolves relative paths against the file's own
// directory and canonicalizes every path. Parsing stops at the first
// line without a colon.
//
// [Grafter] runs the pipeline in a fixed order: locate the [Set],
// resolve the command, unshare the mount namespace, make "/" private
// recursively, bind-mount each source onto its destination in file
// order, [Translate] the working directory, and exec through
// [Launcher]. Everything before the unshare is free of privileged
// operations, so configuration errors are reported before anything
// changes. Kernel operations go through the [System] interface so the
// pipeline can be exercised against a recorder in tests.
//
// Translation uses the first mapping, in file order, whose destination
// contains the working directory (compared component by component);
// the process continues in the matching location under that mapping's
// source. All mappings are mounted whether or not they match.
//
// Errors are [*Error] values classified by [Kind]; compare with
// errors.Is against [ErrConfigNotFound], [ErrConfigParse],
// [ErrNamespaceSetup], [ErrMount], [ErrShellUnavailable], and
// [ErrLaunch]. None are retried.
//
// [Validator] performs the same discovery without side effects and
// reports a checklist, for "graft --check".
package graft
