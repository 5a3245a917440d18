// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"fmt"
)

// Kind classifies a grafting failure. Every kind is terminal: the
// pipeline stops at the first error and the process exits, letting
// the kernel discard the namespace and any mounts already made.
type Kind string

const (
	// KindConfigNotFound means no directory between the starting
	// directory and the filesystem root holds a non-empty mapping file.
	KindConfigNotFound Kind = "config_not_found"

	// KindConfigParse means a mapping file was found but could not be
	// read, or one of its paths failed to canonicalize.
	KindConfigParse Kind = "config_parse"

	// KindNamespaceSetup means unsharing the mount namespace or making
	// the root mount private failed.
	KindNamespaceSetup Kind = "namespace_setup"

	// KindMount means a bind mount failed.
	KindMount Kind = "mount"

	// KindShellUnavailable means no command was given and no shell is
	// configured in the environment.
	KindShellUnavailable Kind = "shell_unavailable"

	// KindLaunch means the replacement program could not be started:
	// lookup, privilege drop, working directory change, or exec failed.
	KindLaunch Kind = "launch"
)

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind
// regardless of operation, path, or wrapped cause.
var (
	ErrConfigNotFound   = &Error{Kind: KindConfigNotFound}
	ErrConfigParse      = &Error{Kind: KindConfigParse}
	ErrNamespaceSetup   = &Error{Kind: KindNamespaceSetup}
	ErrMount            = &Error{Kind: KindMount}
	ErrShellUnavailable = &Error{Kind: KindShellUnavailable}
	ErrLaunch           = &Error{Kind: KindLaunch}
)

// Error is a classified grafting failure. Op names the operation that
// was attempted ("unshare", "bind mount", "exec"), Path the filesystem
// object it was attempted on, and Err the underlying cause (usually a
// syscall.Errno).
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	message := e.Op
	if message == "" {
		message = string(e.Kind)
	}
	if e.Path != "" {
		message += " " + e.Path
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*Error)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.Op == "" && sentinel.Path == "" && sentinel.Err == nil
}

// KindOf returns the Kind of the first *Error in err's chain, or ""
// if there is none.
func KindOf(err error) Kind {
	var graftError *Error
	if errors.As(err, &graftError) {
		return graftError.Kind
	}
	return ""
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func errorf(kind Kind, op, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
