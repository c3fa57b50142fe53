// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package execx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
)

// Result is the captured outcome of one external program run.
type Result struct {
	ExitCode int
	Stdout   string // newline-joined captured standard output
	Stderr   string // newline-joined captured standard error
}

// Run executes the named program with the given arguments, draining standard
// output and standard error concurrently into the context logger and the
// returned Result. It blocks until the process has exited and both streams
// are fully consumed.
//
// By default standard output is logged at info, standard error at error, and
// a non-zero exit code returns an *ExitError alongside the Result. A program
// that cannot be started returns a *SpawnError.
func Run(ctx context.Context, name string, args []string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := ctxlog.Logger(ctx)
	logger.Debug("running command", "path", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)

	if o.stdin != nil {
		cmd.Stdin = bytes.NewReader(o.stdin)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: name, Err: err}
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Path: name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: name, Err: err}
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	stdout := &stream{name: "stdout", r: stdoutPipe, level: o.stdoutLevel}
	stderr := &stream{name: "stderr", r: stderrPipe, level: o.stderrLevel}

	// Both pipes must reach end-of-stream before Wait releases them.
	drain(ctx, stdout, stderr)

	waitErr := cmd.Wait()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	res := &Result{
		ExitCode: exitCode,
		Stdout:   stdout.text(),
		Stderr:   stderr.text(),
	}

	logger.Debug("process finished", "pid", cmd.Process.Pid, "exitCode", res.ExitCode)

	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError

	switch {
	case waitErr == nil:
		return res, nil
	case errors.As(waitErr, &exitErr):
		if o.allowNonZero {
			return res, nil
		}

		return res, &ExitError{Path: name, Args: args, ExitCode: res.ExitCode}
	default:
		// Wait failed for a reason other than the process exiting non-zero.
		return res, waitErr
	}
}

// Capture runs the program with both streams demoted to debug and returns
// the captured standard output text. The output is data for the caller, not
// operator-facing progress, so nothing is surfaced above debug; the
// exit-code policy stays active.
func Capture(ctx context.Context, name string, args ...string) (string, error) {
	res, err := Run(ctx, name, args,
		WithStdoutLevel(slog.LevelDebug),
		WithStderrLevel(slog.LevelDebug),
	)
	if err != nil {
		return "", err
	}

	return res.Stdout, nil
}

// Probe runs the program with both streams demoted to debug and the
// exit-code policy disabled, returning the exit code as data. It is meant
// for idempotent readiness checks; the returned error is non-nil only when
// the program could not be spawned at all.
func Probe(ctx context.Context, name string, args ...string) (int, error) {
	res, err := Run(ctx, name, args,
		WithStdoutLevel(slog.LevelDebug),
		WithStderrLevel(slog.LevelDebug),
		WithoutExitError(),
	)
	if err != nil {
		return -1, err
	}

	return res.ExitCode, nil
}
