// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ValidationResult holds the result of a validation check.
type ValidationResult struct {
	Name    string `json:"name" yaml:"name"`
	Passed  bool   `json:"passed" yaml:"passed"`
	Message string `json:"message" yaml:"message"`
	Warning bool   `json:"warning,omitempty" yaml:"warning,omitempty"` // True if this is a warning, not an error.
}

// Validator performs pre-flight checks without changing anything: no
// namespace is created and nothing is mounted.
type Validator struct {
	results []ValidationResult
	errors  int

	// namespacePath and executable are overridden in tests.
	namespacePath string
	executable    func() (string, error)
	geteuid       func() int
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		results:       make([]ValidationResult, 0),
		namespacePath: "/proc/self/ns/mnt",
		executable:    os.Executable,
		geteuid:       os.Geteuid,
	}
}

// Results returns all validation results.
func (v *Validator) Results() []ValidationResult {
	return v.results
}

// HasErrors returns true if any validation failed.
func (v *Validator) HasErrors() bool {
	return v.errors > 0
}

func (v *Validator) pass(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  true,
		Message: message,
	})
}

func (v *Validator) warn(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  true,
		Message: message,
		Warning: true,
	})
}

func (v *Validator) fail(name, message string) {
	v.results = append(v.results, ValidationResult{
		Name:    name,
		Passed:  false,
		Message: message,
	})
	v.errors++
}

// ValidateAll runs every check for running the grafter on process.
func (v *Validator) ValidateAll(locator *Locator, launcher *Launcher, process *ProcessContext) {
	v.ValidateNamespaces()
	v.ValidatePrivilege()
	if set := v.ValidateConfig(locator, process.WorkingDirectory); set != nil {
		v.ValidateMappings(set)
		workingDirectory, matched := Translate(set.Mappings, process.WorkingDirectory)
		if matched >= 0 {
			v.pass("working_directory", fmt.Sprintf("%s -> %s", process.WorkingDirectory, workingDirectory))
		} else {
			v.pass("working_directory", fmt.Sprintf("%s (outside every destination, unchanged)", process.WorkingDirectory))
		}
	}
	v.ValidateCommand(launcher, process)
}

// ValidateNamespaces checks that the kernel exposes mount namespaces.
func (v *Validator) ValidateNamespaces() {
	if _, err := os.Stat(v.namespacePath); err != nil {
		v.fail("namespace", fmt.Sprintf("mount namespaces unavailable: %v", err))
		return
	}
	v.pass("namespace", "mount namespaces supported")
}

// ValidatePrivilege checks that unshare and mount will be permitted:
// either the process already runs as root, or the executable carries
// the setuid bit.
func (v *Validator) ValidatePrivilege() {
	if v.geteuid() == 0 {
		v.pass("privilege", "running as root")
		return
	}

	path, err := v.executable()
	if err != nil {
		v.fail("privilege", fmt.Sprintf("not root and cannot locate executable: %v", err))
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		v.fail("privilege", fmt.Sprintf("not root and cannot stat %s: %v", path, err))
		return
	}
	if info.Mode()&os.ModeSetuid == 0 {
		v.fail("privilege", fmt.Sprintf("not root and %s is not setuid (install it setuid root or run with sudo)", path))
		return
	}
	v.pass("privilege", fmt.Sprintf("%s is setuid", path))
}

// ValidateConfig locates the mapping file from start. It returns the
// set when one is found, nil otherwise.
func (v *Validator) ValidateConfig(locator *Locator, start string) *Set {
	set, err := locator.Locate(start)
	if err != nil {
		v.fail("config", err.Error())
		return nil
	}
	v.pass("config", fmt.Sprintf("%s (%d mapping(s), %s)", set.File, len(set.Mappings), set.Fingerprint()))
	return set
}

// ValidateMappings checks that every source and destination is an
// existing directory. Destinations are never created.
func (v *Validator) ValidateMappings(set *Set) {
	for index, mapping := range set.Mappings {
		name := fmt.Sprintf("mapping[%d]", index)
		if message, ok := checkDirectory("source", mapping.Source); !ok {
			v.fail(name, message)
			continue
		}
		if message, ok := checkDirectory("destination", mapping.Destination); !ok {
			v.fail(name, message)
			continue
		}
		if mapping.Source == mapping.Destination {
			v.warn(name, fmt.Sprintf("%s is mounted onto itself", mapping.Source))
			continue
		}
		v.pass(name, fmt.Sprintf("%s onto %s", mapping.Source, mapping.Destination))
	}
}

func checkDirectory(role, path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("%s does not exist: %s", role, path), false
		}
		return fmt.Sprintf("cannot access %s %s: %v", role, path, err), false
	}
	if !info.IsDir() {
		return fmt.Sprintf("%s is not a directory: %s", role, path), false
	}
	return "", true
}

// ValidateCommand checks that a command is available and resolvable.
func (v *Validator) ValidateCommand(launcher *Launcher, process *ProcessContext) {
	command, err := launcher.Command(process)
	if err != nil {
		v.fail("command", err.Error())
		return
	}

	lookPath := launcher.LookPath
	if lookPath == nil {
		lookPath = LookPath
	}
	path, err := lookPath(command[0])
	if err != nil {
		v.fail("command", fmt.Sprintf("%s: %v", command[0], err))
		return
	}
	v.pass("command", path)
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// PrintResults writes validation results to w. When styled is set the
// status marks are coloured for a terminal.
func (v *Validator) PrintResults(w io.Writer, styled bool) {
	for _, r := range v.results {
		var prefix string
		var style lipgloss.Style
		switch {
		case !r.Passed:
			prefix, style = "✗", failStyle
		case r.Warning:
			prefix, style = "⚠", warnStyle
		default:
			prefix, style = "✓", passStyle
		}
		if styled {
			prefix = style.Render(prefix)
		}
		fmt.Fprintf(w, "%s %s: %s\n", prefix, r.Name, r.Message)
	}

	fmt.Fprintln(w)
	if v.HasErrors() {
		fmt.Fprintf(w, "Validation failed with %d error(s)\n", v.errors)
	} else {
		fmt.Fprintln(w, "Ready to graft")
	}
}
