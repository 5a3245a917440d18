// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package graft

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// linuxSystem performs the real syscalls.
type linuxSystem struct{}

// NewSystem returns the production [System]. It locks the calling
// goroutine to its OS thread for the rest of the process lifetime:
// unshare(CLONE_NEWNS) implies CLONE_FS, so the namespace and the
// working directory are per-thread until execve.
func NewSystem() System {
	runtime.LockOSThread()
	return linuxSystem{}
}

func (linuxSystem) Getwd() (string, error) {
	return unix.Getwd()
}

func (linuxSystem) Unshare() error {
	return unix.Unshare(unix.CLONE_NEWNS)
}

func (linuxSystem) MakeRootPrivate() error {
	return unix.Mount("none", "/", "", unix.MS_REC|unix.MS_PRIVATE, "")
}

func (linuxSystem) BindMount(source, destination string) error {
	return unix.Mount(source, destination, "", unix.MS_BIND|unix.MS_REC, "")
}

func (linuxSystem) Chdir(dir string) error {
	return unix.Chdir(dir)
}

// DropPrivileges lowers the effective ids only. The saved set-user-ID
// is replaced by the effective id at execve, so the replacement
// program cannot regain root.
func (linuxSystem) DropPrivileges() error {
	if err := unix.Setresgid(-1, unix.Getgid(), -1); err != nil {
		return err
	}
	return unix.Setresuid(-1, unix.Getuid(), -1)
}

// RestorePrivileges raises the effective ids to the saved ones. The uid
// goes first: changing the gid to one that is neither real nor
// effective needs root.
func (linuxSystem) RestorePrivileges() error {
	_, _, savedUID := unix.Getresuid()
	if err := unix.Setresuid(-1, savedUID, -1); err != nil {
		return err
	}
	_, _, savedGID := unix.Getresgid()
	return unix.Setresgid(-1, savedGID, -1)
}

func (linuxSystem) Exec(path string, argv []string, env []string) error {
	return unix.Exec(path, argv, env)
}
