// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package execx

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/marcelfarres/pachyderm/internal/color"
	"github.com/marcelfarres/pachyderm/internal/ctxlog"
)

const (
	initialLineSize = 64 * 1024
	maxLineSize     = 1024 * 1024
)

// stream is one of the child's output channels: the pipe it is read from,
// the level its lines are logged at, and the captured lines in arrival
// order. A stream belongs to a single Run invocation.
type stream struct {
	name  string
	r     io.Reader
	level slog.Level
	lines []string
}

// drain reads both streams to end-of-stream concurrently, so the child is
// never blocked writing to one pipe while only the other is being read.
// Every non-empty line is logged as it arrives and appended to its stream's
// capture. End-of-stream on both pipes is the authoritative completion
// signal; the caller waits for process exit afterwards.
func drain(ctx context.Context, stdout, stderr *stream) {
	wg := &sync.WaitGroup{}

	for _, s := range []*stream{stdout, stderr} {
		wg.Add(1)

		go func(s *stream) {
			defer wg.Done()
			s.consume(ctx)
		}(s)
	}

	wg.Wait()
}

// consume reads the stream one line at a time until end-of-stream. The line
// terminator is stripped and empty lines are dropped from both the log and
// the capture. A scan error never stops the drain: the pipe is still read
// to end-of-stream so the child can never block on a full buffer, and the
// remaining bytes are kept best-effort.
func (s *stream) consume(ctx context.Context) {
	logger := ctxlog.Logger(ctx)

	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, initialLineSize), maxLineSize)

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}

		logger.Log(ctx, s.level, decorate(line, s.level))
		s.lines = append(s.lines, line)
	}

	if err := sc.Err(); err != nil {
		logger.Debug("stream line scan ended early", "stream", s.name, "error", err)
		s.drainRest()
	}
}

// drainRest takes over after the line scanner gives up, for example on a
// line longer than maxLineSize. The rest of the pipe is read until
// end-of-stream, so a stuck scanner never leaves the child blocked on a
// full pipe. What the scanner already buffered is lost; the bytes past it
// are kept, newline-split but without the per-line size guarantee.
func (s *stream) drainRest() {
	var rest strings.Builder

	if _, err := io.Copy(&rest, s.r); err != nil {
		return
	}

	for _, line := range strings.Split(rest.String(), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		s.lines = append(s.lines, line)
	}
}

// text returns the captured lines newline-joined.
func (s *stream) text() string {
	return strings.Join(s.lines, "\n")
}

// decorate highlights a line according to the severity it is logged at:
// red bold for error and above, yellow bold for warning, unchanged below.
func decorate(line string, level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.Colorize(line, color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		return color.Colorize(line, color.FgYellow, color.Bold)
	}

	return line
}
