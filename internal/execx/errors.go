// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package execx

import (
	"fmt"
	"strings"
)

// SpawnError is returned when the external program could not be started at
// all (missing binary, permission denied). It is distinct from a non-zero
// exit: the program never ran.
type SpawnError struct {
	Path string
	Err  error
}

// Error implements the error interface for SpawnError.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not start `%s`: %v", e.Path, e.Err)
}

// Unwrap returns the underlying operating system error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError is returned when the program ran and exited with a non-zero code
// while the exit-code policy was active. It carries the program, its
// arguments and the exit code for diagnostics; the process output itself has
// already been logged line by line before this error surfaces.
type ExitError struct {
	Path     string
	Args     []string
	ExitCode int
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("unexpected exit code for `%s %s`: %d",
		e.Path, strings.Join(e.Args, " "), e.ExitCode)
}
