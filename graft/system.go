// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

// System is the set of process and kernel operations the pipeline
// performs. The production implementation is returned by [NewSystem];
// tests substitute a recorder.
//
// Files named by the user (mapping files, the paths in them, tool
// configuration) must only be read between DropPrivileges and
// RestorePrivileges: a setuid-root graft would otherwise read them
// with root's permissions.
//
// Implementations must run every method on the same OS thread once
// Unshare has been called: the new mount namespace and working
// directory belong to that thread, and Exec carries them into the
// replacement program.
type System interface {
	// Getwd returns the kernel's view of the current working
	// directory, with no symlinks.
	Getwd() (string, error)

	// Unshare moves the calling thread into a new mount namespace
	// copied from the current one.
	Unshare() error

	// MakeRootPrivate marks "/" and every mount beneath it private so
	// that later mounts do not propagate to other namespaces.
	MakeRootPrivate() error

	// BindMount recursively bind-mounts source onto destination.
	BindMount(source, destination string) error

	// Chdir changes the calling thread's working directory.
	Chdir(dir string) error

	// DropPrivileges sets the effective group and user ids to the real
	// ones. The saved ids are kept, so [System.RestorePrivileges] can
	// undo it until Exec.
	DropPrivileges() error

	// RestorePrivileges sets the effective group and user ids back to
	// the saved ones.
	RestorePrivileges() error

	// Exec replaces the process image. It returns only on failure.
	Exec(path string, argv []string, env []string) error
}
