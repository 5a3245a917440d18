// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"check", "check", 0},
		{"chekc", "check", 2},
		{"verbos", "verbose", 1},
		{"kitten", "sitting", 3},
	}

	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d (symmetry)", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	t.Parallel()

	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("graft", pflag.ContinueOnError)
		flagSet.BoolP("dry-run", "n", false, "")
		flagSet.Bool("check", false, "")
		flagSet.String("config", "", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "transposition", args: []string{"--chekc"}, want: "--check"},
		{name: "with value", args: []string{"--confg=/etc/graft.yaml"}, want: "--config"},
		{name: "known flags skipped", args: []string{"-n", "--dryrun"}, want: "--dry-run"},
		{name: "too distant", args: []string{"--zzzzzzzz"}, want: ""},
		{name: "stops at terminator", args: []string{"--", "--chekc"}, want: ""},
		{name: "positional ignored", args: []string{"make"}, want: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
