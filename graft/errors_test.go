// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := newError(KindMount, "bind mount /src onto", "/dst", syscall.ENOENT)

	if !errors.Is(err, ErrMount) {
		t.Error("errors.Is(err, ErrMount) = false, want true")
	}
	if errors.Is(err, ErrNamespaceSetup) {
		t.Error("errors.Is(err, ErrNamespaceSetup) = true, want false")
	}
	if !errors.Is(err, syscall.ENOENT) {
		t.Error("errors.Is(err, ENOENT) = false, want true")
	}

	// A populated *Error is not a sentinel.
	other := newError(KindMount, "bind mount", "/elsewhere", nil)
	if errors.Is(err, other) {
		t.Error("errors.Is matched a non-sentinel *Error")
	}

	wrapped := fmt.Errorf("grafting: %w", err)
	if !errors.Is(wrapped, ErrMount) {
		t.Error("errors.Is(wrapped, ErrMount) = false, want true")
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *Error
		want string
	}{
		{
			err:  newError(KindMount, "bind mount /src onto", "/dst", syscall.EPERM),
			want: "bind mount /src onto /dst: operation not permitted",
		},
		{
			err:  newError(KindNamespaceSetup, "unshare mount namespace", "", syscall.EPERM),
			want: "unshare mount namespace: operation not permitted",
		},
		{
			err:  &Error{Kind: KindLaunch},
			want: "launch",
		},
		{
			err:  errorf(KindShellUnavailable, "resolve command", "", "no command given and %s is not set", EnvShell),
			want: "resolve command: no command given and SHELL is not set",
		},
	}

	for _, test := range tests {
		if got := test.err.Error(); got != test.want {
			t.Errorf("Error() = %q, want %q", got, test.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(fmt.Errorf("outer: %w", ErrConfigParse)); got != KindConfigParse {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindConfigParse)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}
