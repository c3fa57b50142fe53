// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-injected structured logger built on
// log/slog. Components take the logger from the context they were called
// with, so concurrent process invocations share one sink without depending
// on mutable global configuration, and tests can inject a recording handler.
//
// The level ladder extends slog with LevelCritical above LevelError, giving
// the total order critical > error > warning > info > debug. The initial
// level comes from the RESET_LOG_LEVEL environment variable and can be
// overridden at runtime with SetLevel.
package ctxlog
