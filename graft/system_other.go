// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package graft

import (
	"errors"
	"os"
	"syscall"
)

var errUnsupported = errors.New("mount namespaces require Linux")

// unsupportedSystem resolves plans (for --dry-run and --check) but
// refuses every mutating operation.
type unsupportedSystem struct{}

// NewSystem returns a [System] whose mutating operations fail.
func NewSystem() System {
	return unsupportedSystem{}
}

func (unsupportedSystem) Getwd() (string, error)         { return os.Getwd() }
func (unsupportedSystem) Unshare() error                 { return errUnsupported }
func (unsupportedSystem) MakeRootPrivate() error         { return errUnsupported }
func (unsupportedSystem) BindMount(string, string) error { return errUnsupported }
func (unsupportedSystem) Chdir(dir string) error         { return os.Chdir(dir) }
func (unsupportedSystem) RestorePrivileges() error       { return errUnsupported }

// DropPrivileges works everywhere so that --dry-run and --check read
// files as the invoking user.
func (unsupportedSystem) DropPrivileges() error {
	if err := syscall.Setegid(os.Getgid()); err != nil {
		return err
	}
	return syscall.Seteuid(os.Getuid())
}

func (unsupportedSystem) Exec(path string, argv []string, env []string) error {
	return syscall.Exec(path, argv, env)
}
