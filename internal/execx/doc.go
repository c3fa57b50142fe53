// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package execx runs external programs, streaming their output through the
// context logger line by line while it is captured. Standard output and
// standard error are drained concurrently, each at its own log level, and a
// non-zero exit code is an error unless the caller suppresses it.
//
// There is no caller-facing timeout: a stuck child is only terminated via
// cancellation of the context passed to Run.
package execx
