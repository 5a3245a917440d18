// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for graft packages.
//
// [TempDir] returns a temporary directory with symlinks resolved.
// Grafting compares canonical paths, and on several systems the
// default temporary directory is reached through a symlink (macOS
// /var -> /private/var, some CI images with /tmp on a bind or link),
// so tests that compare paths against parser output must start from
// the canonical form.
//
// [Mkdirs] and [WriteFile] build directory trees under such a root.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no other internal dependencies.
package testutil
