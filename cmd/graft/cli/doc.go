// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line plumbing for graft.
//
// [Command] wraps a [pflag.FlagSet] factory, help text with examples,
// and a Run function. [Command.Execute] parses flags, prints structured
// help for -h and --help, and on an unknown flag suggests the closest
// defined one by Levenshtein edit distance (threshold: distance <= 3).
//
// Flags are declared as tagged struct fields and bound with
// [BindFlags] or [FlagsFromParams]. [OutputFormat] adds a --format
// flag that renders a result as JSON, YAML, or CBOR instead of text.
// [NewCommandLogger] builds the slog logger every command shares, and
// [ExitError] lets a command choose its exit status without printing
// an extra message.
package cli
