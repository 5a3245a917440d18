// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"
)

// fakeFilesystem is a map-backed [Filesystem]. Directories must be
// registered to canonicalize; links map a path to the directory it
// resolves to.
type fakeFilesystem struct {
	files       map[string]string
	directories map[string]bool
	links       map[string]string
	reads       []string

	// privileged, when set, reports whether the process currently holds
	// elevated ids. Every path touched while it returns true is recorded
	// in privilegedAccess.
	privileged       func() bool
	privilegedAccess []string
}

func (f *fakeFilesystem) observe(path string) {
	if f.privileged != nil && f.privileged() {
		f.privilegedAccess = append(f.privilegedAccess, path)
	}
}

func newFakeFilesystem(directories ...string) *fakeFilesystem {
	filesystem := &fakeFilesystem{
		files:       make(map[string]string),
		directories: map[string]bool{"/": true},
		links:       make(map[string]string),
	}
	for _, directory := range directories {
		filesystem.addDirectory(directory)
	}
	return filesystem
}

func (f *fakeFilesystem) addDirectory(directory string) {
	for dir := range Ancestors(filepath.Clean(directory)) {
		f.directories[dir] = true
	}
}

func (f *fakeFilesystem) addFile(path, content string) {
	f.addDirectory(filepath.Dir(path))
	f.files[path] = content
}

func (f *fakeFilesystem) ReadFile(name string) ([]byte, error) {
	f.reads = append(f.reads, name)
	f.observe(name)
	if f.directories[name] {
		return nil, &fs.PathError{Op: "read", Path: name, Err: syscall.EISDIR}
	}
	content, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (f *fakeFilesystem) Canonicalize(path string) (string, error) {
	path = filepath.Clean(path)
	f.observe(path)
	if target, ok := f.links[path]; ok {
		path = target
	}
	if !f.directories[path] {
		return "", &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return path, nil
}

// errExecuted stands in for a successful exec, which never returns.
var errExecuted = errors.New("fake exec reached")

// fakeSystem records every call in order. failures maps a call name
// (as recorded) to the error it returns. It starts privileged, like a
// setuid-root binary, and refuses namespace and mount calls once the
// privileges have been dropped.
type fakeSystem struct {
	workingDirectory string
	calls            []string
	failures         map[string]error
	privileged       bool

	execPath string
	execArgv []string
	execEnv  []string
}

func newFakeSystem(workingDirectory string) *fakeSystem {
	return &fakeSystem{
		workingDirectory: workingDirectory,
		failures:         make(map[string]error),
		privileged:       true,
	}
}

func (s *fakeSystem) isPrivileged() bool { return s.privileged }

// recordPrivileged records call and fails with EPERM when the
// effective ids are not root's.
func (s *fakeSystem) recordPrivileged(call string) error {
	if err := s.record(call); err != nil {
		return err
	}
	if !s.privileged {
		return syscall.EPERM
	}
	return nil
}

func (s *fakeSystem) record(call string) error {
	s.calls = append(s.calls, call)
	return s.failures[call]
}

func (s *fakeSystem) Getwd() (string, error) {
	return s.workingDirectory, s.record("getwd")
}

func (s *fakeSystem) Unshare() error { return s.recordPrivileged("unshare") }

func (s *fakeSystem) MakeRootPrivate() error { return s.recordPrivileged("private /") }

func (s *fakeSystem) BindMount(source, destination string) error {
	return s.recordPrivileged("bind " + source + " " + destination)
}

func (s *fakeSystem) Chdir(dir string) error { return s.record("chdir " + dir) }

func (s *fakeSystem) DropPrivileges() error {
	if err := s.record("drop privileges"); err != nil {
		return err
	}
	s.privileged = false
	return nil
}

func (s *fakeSystem) RestorePrivileges() error {
	if err := s.record("restore privileges"); err != nil {
		return err
	}
	s.privileged = true
	return nil
}

func (s *fakeSystem) Exec(path string, argv []string, env []string) error {
	s.execPath = path
	s.execArgv = argv
	s.execEnv = env
	if err := s.record("exec " + path); err != nil {
		return err
	}
	return errExecuted
}

// mutated reports whether any call other than reading the working
// directory or dropping privileges was made.
func (s *fakeSystem) mutated() bool {
	for _, call := range s.calls {
		if call != "getwd" && call != "drop privileges" {
			return true
		}
	}
	return false
}

// fakeLookPath resolves bare names under /usr/bin and returns paths
// containing a slash unchanged.
func fakeLookPath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	if file == "missing" {
		return "", errors.New("executable file not found in $PATH")
	}
	return filepath.Join("/usr/bin", file), nil
}
