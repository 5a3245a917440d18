// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// ExitCoder is implemented by errors that choose their own exit status
// and have already reported themselves.
type ExitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// Exit terminates the process for the error returned by run(). A nil
// error exits 0. Errors implementing [ExitCoder] exit with their code
// and print nothing; any other error is reported by [Fatal].
func Exit(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes the diagnostic for err to w, if one is needed, and
// returns the exit status for it.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if coder, ok := err.(ExitCoder); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
