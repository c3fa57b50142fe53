// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI control codes for terminal text formatting.
// Color output is disabled when the NO_COLOR environment variable is set or
// when stdout is not a terminal, and forced on by FORCE_COLOR.
package color
