// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"fmt"
	"log/slog"
)

// Options configures a [Grafter].
type Options struct {
	// System performs the kernel operations. Required.
	System System

	// Filesystem is read to locate mapping files. Defaults to
	// [OSFilesystem].
	Filesystem Filesystem

	// ConfigName is the mapping file name. Defaults to
	// [DefaultConfigName].
	ConfigName string

	// LibraryPath is passed to [Launcher.LibraryPath].
	LibraryPath []string

	// LookPath is passed to [Launcher.LookPath].
	LookPath func(file string) (string, error)

	// Logger for pipeline progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Grafter runs the grafting pipeline: locate the mapping file, isolate
// the mount namespace, mount every mapping, translate the working
// directory, and exec the replacement program.
type Grafter struct {
	system   System
	locator  *Locator
	launcher *Launcher
	logger   *slog.Logger
}

// New creates a Grafter.
func New(options Options) (*Grafter, error) {
	if options.System == nil {
		return nil, fmt.Errorf("system is required")
	}

	filesystem := options.Filesystem
	if filesystem == nil {
		filesystem = OSFilesystem{}
	}
	configName := options.ConfigName
	if configName == "" {
		configName = DefaultConfigName
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Grafter{
		system: options.System,
		locator: &Locator{
			Filesystem: filesystem,
			Name:       configName,
			Logger:     logger,
		},
		launcher: &Launcher{
			LibraryPath: options.LibraryPath,
			LookPath:    options.LookPath,
		},
		logger: logger,
	}, nil
}

// NewContext captures the calling process: its canonical working
// directory (as the kernel reports it, with any remaining symlinks
// resolved), the given environment entries, and args as the
// replacement command.
func (g *Grafter) NewContext(args []string, environ []string) (*ProcessContext, error) {
	if err := g.lowerPrivileges(); err != nil {
		return nil, err
	}
	workingDirectory, err := g.system.Getwd()
	if err != nil {
		return nil, fmt.Errorf("reading working directory: %w", err)
	}
	workingDirectory, err = g.locator.Filesystem.Canonicalize(workingDirectory)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing working directory: %w", err)
	}
	return &ProcessContext{
		WorkingDirectory: workingDirectory,
		Environment:      ParseEnvironment(environ),
		Args:             args,
	}, nil
}

// Plan is everything the pipeline decides before touching the mount
// namespace. It is what --dry-run prints.
type Plan struct {
	// Set is the located mapping file and its mappings.
	Set *Set `json:"set" yaml:"set"`

	// OriginalWorkingDirectory is the canonical starting directory.
	OriginalWorkingDirectory string `json:"original_working_directory" yaml:"original_working_directory"`

	// WorkingDirectory is the translated directory.
	WorkingDirectory string `json:"working_directory" yaml:"working_directory"`

	// Matched is the index into Set.Mappings of the mapping that
	// decided WorkingDirectory, or -1.
	Matched int `json:"matched" yaml:"matched"`

	// Command is the replacement command line before PATH lookup.
	Command []string `json:"command" yaml:"command"`

	// Environment holds the variables published to the replacement
	// program (not the inherited ones).
	Environment map[string]string `json:"environment" yaml:"environment"`
}

// lowerPrivileges drops to the invoking user's ids before any file
// the user controls is read.
func (g *Grafter) lowerPrivileges() error {
	if err := g.system.DropPrivileges(); err != nil {
		return newError(KindLaunch, "drop privileges", "", err)
	}
	return nil
}

// Resolve computes the plan for process without any privileged
// operation: files are read with the invoking user's ids.
// process.WorkingDirectory must already be canonical. process itself
// is not modified.
func (g *Grafter) Resolve(process *ProcessContext) (*Plan, error) {
	if err := g.lowerPrivileges(); err != nil {
		return nil, err
	}

	set, err := g.locator.Locate(process.WorkingDirectory)
	if err != nil {
		return nil, err
	}

	command, err := g.launcher.Command(process)
	if err != nil {
		return nil, err
	}

	workingDirectory, matched := Translate(set.Mappings, process.WorkingDirectory)

	// Compute the published variables on a scratch copy so the plan
	// can report them.
	scratch := &ProcessContext{
		WorkingDirectory: workingDirectory,
		Environment:      process.Environment.Clone(),
		Args:             process.Args,
	}
	g.launcher.Prepare(scratch, set, process.WorkingDirectory)
	published := make(map[string]string)
	for key, value := range scratch.Environment {
		if process.Environment.Get(key) != value {
			published[key] = value
		}
	}

	return &Plan{
		Set:                      set,
		OriginalWorkingDirectory: process.WorkingDirectory,
		WorkingDirectory:         workingDirectory,
		Matched:                  matched,
		Command:                  command,
		Environment:              published,
	}, nil
}

// Apply regains the saved ids, isolates the mount namespace and mounts
// every mapping in order. The first failure stops the sequence; mounts
// already made are left for the kernel to discard with the namespace.
func (g *Grafter) Apply(set *Set) error {
	if err := g.system.RestorePrivileges(); err != nil {
		return newError(KindNamespaceSetup, "restore privileges", "", err)
	}
	if err := g.system.Unshare(); err != nil {
		return newError(KindNamespaceSetup, "unshare mount namespace", "", err)
	}
	if err := g.system.MakeRootPrivate(); err != nil {
		return newError(KindNamespaceSetup, "make mount private", "/", err)
	}
	g.logger.Debug("mount namespace isolated")

	for _, mapping := range set.Mappings {
		if err := g.system.BindMount(mapping.Source, mapping.Destination); err != nil {
			return newError(KindMount, "bind mount "+mapping.Source+" onto", mapping.Destination, err)
		}
		g.logger.Debug("bind mounted", "source", mapping.Source, "destination", mapping.Destination)
	}
	return nil
}

// Run executes the whole pipeline on process. On success the process
// image is replaced and Run does not return; every return is an error.
func (g *Grafter) Run(process *ProcessContext) error {
	if process.Environment == nil {
		process.Environment = Environment{}
	}

	plan, err := g.Resolve(process)
	if err != nil {
		return err
	}

	if err := g.Apply(plan.Set); err != nil {
		return err
	}

	// The old working directory reference may point beneath a mount
	// that now hides it; changing directory by path picks up the graft
	// even when the path is unchanged.
	if err := g.system.Chdir(plan.WorkingDirectory); err != nil {
		return newError(KindLaunch, "chdir", plan.WorkingDirectory, err)
	}
	original := process.WorkingDirectory
	process.WorkingDirectory = plan.WorkingDirectory
	g.launcher.Prepare(process, plan.Set, original)

	g.logger.Debug("launching",
		"file", plan.Set.File,
		"mappings", len(plan.Set.Mappings),
		"working_directory", plan.WorkingDirectory,
		"command", plan.Command,
	)

	return g.launcher.Launch(g.system, process, plan.Command)
}

// Check runs the pre-flight checks for process. Nothing is unshared,
// mounted, or executed.
func (g *Grafter) Check(process *ProcessContext) *Validator {
	validator := NewValidator()
	if err := g.lowerPrivileges(); err != nil {
		validator.fail("privilege", err.Error())
		return validator
	}
	validator.ValidateAll(g.locator, g.launcher, process)
	return validator
}
