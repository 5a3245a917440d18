// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"slices"
	"strings"
)

// Environment variables published to the replacement process.
const (
	EnvGraft       = "GRAFT"
	EnvGraftFile   = "GRAFT_FILE"
	EnvGraftID     = "GRAFT_ID"
	EnvOldPWD      = "OLDPWD"
	EnvPWD         = "PWD"
	EnvLibraryPath = "LD_LIBRARY_PATH"
	EnvShell       = "SHELL"
)

// Environment is a process environment keyed by variable name.
type Environment map[string]string

// ParseEnvironment builds an Environment from "KEY=VALUE" entries as
// returned by os.Environ. Entries without "=" are dropped; the last
// duplicate wins.
func ParseEnvironment(entries []string) Environment {
	environment := make(Environment, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			continue
		}
		environment[key] = value
	}
	return environment
}

// Get returns the value of key, or "" when unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// Set assigns key.
func (e Environment) Set(key, value string) {
	e[key] = value
}

// Entries returns the environment as sorted "KEY=VALUE" strings for
// execve.
func (e Environment) Entries() []string {
	entries := make([]string, 0, len(e))
	for key, value := range e {
		entries = append(entries, key+"="+value)
	}
	slices.Sort(entries)
	return entries
}

// Clone returns an independent copy.
func (e Environment) Clone() Environment {
	clone := make(Environment, len(e))
	for key, value := range e {
		clone[key] = value
	}
	return clone
}

// ProcessContext is the process state the pipeline reads and mutates:
// the working directory, the environment handed to the replacement
// program, and the command line. Threading it explicitly keeps every
// stage testable without touching the real process.
type ProcessContext struct {
	// WorkingDirectory starts as the canonical directory the process
	// was started in and ends as the translated directory.
	WorkingDirectory string

	// Environment starts as the inherited environment and gains the
	// variables described in [Launcher.Prepare].
	Environment Environment

	// Args is the replacement command. Empty means "run $SHELL".
	Args []string
}
