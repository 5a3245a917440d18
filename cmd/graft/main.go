// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/graft/cmd/graft/cli"
	"github.com/bureau-foundation/graft/graft"
	"github.com/bureau-foundation/graft/lib/config"
	"github.com/bureau-foundation/graft/lib/process"
	"github.com/bureau-foundation/graft/lib/version"
)

const envDebug = "GRAFT_DEBUG"

func main() {
	process.Exit(run(os.Args[1:]))
}

func run(args []string) error {
	return rootCommand(os.Stdout, os.Stderr, os.Environ(), graft.NewSystem()).Execute(args)
}

type rootParams struct {
	cli.OutputFormat
	Config  string `flag:"config" desc:"tool configuration file (also GRAFT_CONFIG)"`
	DryRun  bool   `flag:"dry-run,n" desc:"print the resolved plan and exit"`
	Check   bool   `flag:"check" desc:"run pre-flight checks and exit"`
	Verbose bool   `flag:"verbose,v" desc:"debug logging (also GRAFT_DEBUG=1)"`
	Version bool   `flag:"version" desc:"print version and exit"`
}

// rootCommand builds the graft command. system performs every
// privileged operation; configuration and mapping files are only read
// after it has dropped to the invoking user's ids.
func rootCommand(stdout, stderr io.Writer, environ []string, system graft.System) *cli.Command {
	var params rootParams

	return &cli.Command{
		Name:    "graft",
		Summary: "Run a command with directories grafted over the filesystem",
		Description: `Run a command with directories grafted over the filesystem.

graft finds the nearest .graft file in the working directory or a
parent, bind-mounts each source onto its destination in a private mount
namespace, moves to the matching directory under the source, and runs
the command as the invoking user. With no command it runs $SHELL.`,
		Usage: "graft [flags] [--] [command [args...]]",
		Examples: []cli.Example{
			{
				Description: "Open a shell in the grafted tree",
				Command:     "graft",
			},
			{
				Description: "Build against the grafted output directory",
				Command:     "graft make -j8",
			},
			{
				Description: "Show what would be mounted, as JSON",
				Command:     "graft --dry-run --format=json",
			},
			{
				Description: "Check that grafting will work here",
				Command:     "graft --check",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := cli.FlagsFromParams("graft", &params)
			// Everything after the command name belongs to the command.
			flagSet.SetInterspersed(false)
			return flagSet
		},
		Stderr: stderr,
		Run: func(args []string) error {
			if params.Version {
				fmt.Fprintf(stdout, "graft %s\n", version.Info())
				return nil
			}
			if err := params.OutputFormat.Validate(); err != nil {
				return err
			}

			environment := graft.ParseEnvironment(environ)

			if err := system.DropPrivileges(); err != nil {
				return fmt.Errorf("dropping privileges: %w", err)
			}
			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}
			level, err := cli.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("log.level: %w", err)
			}
			if params.Verbose || environment.Get(envDebug) != "" {
				level = slog.LevelDebug
			}
			logger := cli.NewCommandLogger(level)

			grafter, err := graft.New(graft.Options{
				System:      system,
				ConfigName:  cfg.ConfigName,
				LibraryPath: cfg.Launcher.LibraryPath,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			processContext, err := grafter.NewContext(args, environ)
			if err != nil {
				return err
			}

			switch {
			case params.Check:
				return runCheck(stdout, &params, grafter, processContext)
			case params.DryRun:
				return runDryRun(stdout, &params, grafter, processContext)
			default:
				return grafter.Run(processContext)
			}
		},
	}
}

// loadConfig loads the tool configuration from path, or from
// GRAFT_CONFIG when path is empty.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runCheck(stdout io.Writer, params *rootParams, grafter *graft.Grafter, processContext *graft.ProcessContext) error {
	validator := grafter.Check(processContext)

	if done, err := params.Emit(stdout, validator.Results()); done {
		if err != nil {
			return err
		}
	} else {
		styled := false
		if file, ok := stdout.(*os.File); ok {
			styled = cli.IsTerminal(file)
		}
		validator.PrintResults(stdout, styled)
	}

	if validator.HasErrors() {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func runDryRun(stdout io.Writer, params *rootParams, grafter *graft.Grafter, processContext *graft.ProcessContext) error {
	plan, err := grafter.Resolve(processContext)
	if err != nil {
		return err
	}

	if done, err := params.Emit(stdout, plan); done {
		return err
	}
	return printPlan(stdout, plan)
}

// printPlan writes the plan as aligned text. The mapping that decided
// the working directory is marked with "*".
func printPlan(w io.Writer, plan *graft.Plan) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "mapping file:\t%s\n", plan.Set.File)
	fmt.Fprintf(tw, "graft id:\t%s\n", plan.Set.Fingerprint())
	for index, mapping := range plan.Set.Mappings {
		marker := " "
		if index == plan.Matched {
			marker = "*"
		}
		fmt.Fprintf(tw, "mount:\t%s %s onto %s\n", marker, mapping.Source, mapping.Destination)
	}
	fmt.Fprintf(tw, "working directory:\t%s -> %s\n", plan.OriginalWorkingDirectory, plan.WorkingDirectory)
	fmt.Fprintf(tw, "command:\t%s\n", strings.Join(plan.Command, " "))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "environment:")
	for _, entry := range graft.Environment(plan.Environment).Entries() {
		fmt.Fprintf(w, "  %s\n", entry)
	}
	return nil
}
