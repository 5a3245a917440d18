// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"os/exec"
	"strings"
)

// Launcher hands the grafted namespace over to the replacement
// program.
type Launcher struct {
	// LibraryPath entries are prepended to LD_LIBRARY_PATH in the
	// replacement environment. Empty leaves LD_LIBRARY_PATH alone.
	LibraryPath []string

	// LookPath resolves a command name the way execvp does. Defaults to
	// [LookPath].
	LookPath func(file string) (string, error)
}

// Command returns the command line to run: the process's arguments,
// or the user's shell when there are none. It fails with
// [KindShellUnavailable] when neither exists. The program name is not
// resolved here; see [Launcher.Launch].
func (l *Launcher) Command(process *ProcessContext) ([]string, error) {
	if len(process.Args) > 0 {
		return process.Args, nil
	}
	shell := process.Environment.Get(EnvShell)
	if shell == "" {
		return nil, errorf(KindShellUnavailable, "resolve command", "",
			"no command given and %s is not set", EnvShell)
	}
	return []string{shell}, nil
}

// Prepare publishes the grafting outcome in process's environment:
// OLDPWD is the directory the process started in, PWD the translated
// directory, GRAFT the applied mappings as "source:destination" pairs
// joined by ";", GRAFT_FILE the mapping file, and GRAFT_ID the set's
// fingerprint. Configured library directories are prepended to
// LD_LIBRARY_PATH.
func (l *Launcher) Prepare(process *ProcessContext, set *Set, originalWorkingDirectory string) {
	environment := process.Environment
	environment.Set(EnvOldPWD, originalWorkingDirectory)
	environment.Set(EnvPWD, process.WorkingDirectory)
	environment.Set(EnvGraft, set.String())
	environment.Set(EnvGraftFile, set.File)
	environment.Set(EnvGraftID, set.Fingerprint())

	if len(l.LibraryPath) > 0 {
		entries := append([]string(nil), l.LibraryPath...)
		if existing := environment.Get(EnvLibraryPath); existing != "" {
			entries = append(entries, existing)
		}
		environment.Set(EnvLibraryPath, strings.Join(entries, ":"))
	}
}

// Launch drops elevated privileges and replaces the process with
// command. It returns only on failure, always with [KindLaunch].
func (l *Launcher) Launch(system System, process *ProcessContext, command []string) error {
	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = LookPath
	}

	// Privileges go first so the lookup below sees what the user sees.
	if err := system.DropPrivileges(); err != nil {
		return newError(KindLaunch, "drop privileges", "", err)
	}

	path, err := lookPath(command[0])
	if err != nil {
		return newError(KindLaunch, "find", command[0], err)
	}

	err = system.Exec(path, command, process.Environment.Entries())
	return newError(KindLaunch, "exec", path, err)
}

// LookPath resolves file through PATH like [exec.LookPath], except that
// a match found through a relative PATH entry (such as ".") is
// returned relative instead of rejected with [exec.ErrDot]. execvp
// runs such programs, and the path is resolved against the grafted
// working directory at exec time.
func LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if err != nil && errors.Is(err, exec.ErrDot) {
		return path, nil
	}
	return path, err
}
