// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package execx

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcelfarres/pachyderm/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingHandler collects log records so tests can assert on what the
// runner forwarded to the sink.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, r)

	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(_ string) slog.Handler      { return h }

// messagesAt returns the forwarded output lines logged at the given level.
// The runner's own diagnostics always carry attributes; forwarded lines
// never do, which is what tells them apart.
func (h *recordingHandler) messagesAt(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var msgs []string

	for _, r := range h.records {
		if r.Level == level && r.NumAttrs() == 0 {
			msgs = append(msgs, r.Message)
		}
	}

	return msgs
}

func recordingContext() (context.Context, *recordingHandler) {
	h := &recordingHandler{}
	return ctxlog.New(context.Background(), slog.New(h)), h
}

func TestRunSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	res, err := Run(ctx, "/bin/echo", []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunNonZeroExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	res, err := Run(ctx, "/bin/sh", []string{"-c", "exit 3"})
	require.Error(t, err)

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, "/bin/sh", exitErr.Path)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunSpawnFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	_, err := Run(ctx, "/not/a/real/command", nil)
	require.Error(t, err)

	var spawnErr *SpawnError

	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "/not/a/real/command", spawnErr.Path)

	var exitErr *ExitError

	assert.False(t, errors.As(err, &exitErr), "spawn failure must not be an ExitError")
}

func TestRunEmptyLinesDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, h := recordingContext()

	res, err := Run(ctx, "/bin/sh", []string{"-c", `printf 'a\n\nb\n'`})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", res.Stdout)

	logged := h.messagesAt(slog.LevelInfo)
	assert.Equal(t, []string{"a", "b"}, logged, "empty line must be neither logged nor captured")
}

func TestRunInterleavingIntegrity(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, h := recordingContext()

	script := `
for i in 1 2 3 4 5; do
  echo "out $i"
  echo "err $i" 1>&2
done`

	res, err := Run(ctx, "/bin/sh", []string{"-c", script})
	require.NoError(t, err)

	wantOut := []string{"out 1", "out 2", "out 3", "out 4", "out 5"}
	wantErr := []string{"err 1", "err 2", "err 3", "err 4", "err 5"}

	assert.Equal(t, wantOut, splitLines(res.Stdout), "stdout lines must keep arrival order")
	assert.Equal(t, wantErr, splitLines(res.Stderr), "stderr lines must keep arrival order")

	assert.Equal(t, wantOut, h.messagesAt(slog.LevelInfo))
	assert.Equal(t, wantErr, h.messagesAt(slog.LevelError))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

func TestRunOverlongLineStillDrains(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// A single line past the scanner limit must not stall the drain:
	// the child would block writing to a full pipe and never exit.
	script := `head -c 2097152 /dev/zero | tr '\0' 'a'; echo; echo trailer`

	res, err := Run(ctx, "/bin/sh", []string{"-c", script})
	require.NoError(t, err)

	lines := splitLines(res.Stdout)
	require.NotEmpty(t, lines)
	assert.Equal(t, "trailer", lines[len(lines)-1],
		"output after the oversized line is still captured")
}

func TestRunStdin(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	res, err := Run(ctx, "/bin/cat", nil, WithStdin([]byte("fed via stdin\n")))
	require.NoError(t, err)
	assert.Equal(t, "fed via stdin", res.Stdout)
}

func TestRunStderrLoggedBeforeErrorSurfaces(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, h := recordingContext()

	_, err := Run(ctx, "/bin/sh", []string{"-c", `echo "diagnostic" 1>&2; exit 1`})
	require.Error(t, err)

	assert.Equal(t, []string{"diagnostic"}, h.messagesAt(slog.LevelError),
		"failing process output must be logged even though the run errored")
}

func TestCapture(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, h := recordingContext()

	out, err := Capture(ctx, "/bin/sh", "-c", `echo "noise" 1>&2; echo captured`)
	require.NoError(t, err)
	assert.Equal(t, "captured", out)

	assert.ElementsMatch(t, []string{"captured", "noise"}, h.messagesAt(slog.LevelDebug),
		"capture mode demotes both streams to debug")
	assert.Empty(t, h.messagesAt(slog.LevelInfo))
	assert.Empty(t, h.messagesAt(slog.LevelError))
}

func TestCaptureStillErrorsOnNonZeroExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	_, err := Capture(ctx, "/bin/sh", "-c", "exit 2")

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode)
}

func TestProbe(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, h := recordingContext()

	rc, err := Probe(ctx, "/bin/sh", "-c", "echo noisy; exit 7")
	require.NoError(t, err, "probe mode must not error on non-zero exit")
	assert.Equal(t, 7, rc)

	assert.Empty(t, h.messagesAt(slog.LevelInfo), "probe demotes all output to debug")
	assert.Equal(t, []string{"noisy"}, h.messagesAt(slog.LevelDebug))
}

func TestProbeIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	first, err := Probe(ctx, "/bin/sh", "-c", "exit 5")
	require.NoError(t, err)

	second, err := Probe(ctx, "/bin/sh", "-c", "exit 5")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, first)
}

func TestProbeSpawnFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()

	_, err := Probe(ctx, "/not/a/real/command")

	var spawnErr *SpawnError

	require.ErrorAs(t, err, &spawnErr, "spawn failure is surfaced even in probe mode")
}

func TestRunContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, _ := recordingContext()
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	_, err := Run(ctx, "/bin/sleep", []string{"10"})
	require.ErrorIs(t, err, context.Canceled)
}
