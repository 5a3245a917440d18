// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// graft runs a command with another directory tree grafted over part
// of the filesystem.
//
// Usage:
//
//	graft [flags] [--] [command [args...]]
//
// graft finds the nearest .graft file in the working directory or one
// of its parents, bind-mounts each listed source onto its destination
// inside a private mount namespace, moves to the matching directory
// under the source, drops privileges, and runs the command (or $SHELL
// when none is given). The binary must be installed setuid root, or
// run as root, for the namespace and mounts to be permitted.
//
// Each line of a .graft file is "destination:source". Relative paths
// are resolved against the file's directory. Parsing stops at the
// first line without a colon.
//
// The replacement program sees OLDPWD (where graft started), PWD (where
// it now is), GRAFT ("source:destination" pairs joined by ";"),
// GRAFT_FILE, and GRAFT_ID (a fingerprint of the mappings).
//
// --dry-run prints the resolved plan without changing anything, and
// --check runs pre-flight checks. Tool settings come from a YAML or
// JSONC file named by --config or GRAFT_CONFIG; see lib/config.
package main
