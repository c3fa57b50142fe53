// Copyright (c) marcelfarres 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package taskgroup runs independent operations concurrently and aggregates
// their failures. Every task runs to completion even when a sibling fails;
// errors are captured per task and surfaced once, after the full join, so a
// failing build never abandons the cluster start running next to it.
//
// Tasks submitted to one group must be mutually independent: the group
// provides no synchronization between them beyond the final join.
package taskgroup

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/marcelfarres/pachyderm/internal/ctxlog"
)

// Task is one operation to run concurrently.
type Task struct {
	Label string
	Fn    func(ctx context.Context) error
}

// Error aggregates the failures of a task group run. It is a distinct type
// so callers can tell "one of N concurrent steps failed" from a failure of
// a single unparallelized call.
type Error struct {
	errs *multierror.Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("task group: %s", e.errs.Error())
}

// Unwrap exposes the captured failures, in submission order.
func (e *Error) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Errors returns the captured failures in submission order.
func (e *Error) Errors() []error {
	return e.errs.WrappedErrors()
}

// Run starts one goroutine per task in submission order and waits for all of
// them to finish. A task that returns an error, or panics, does not affect
// its siblings; the captured failures are returned as a single *Error after
// every task has completed. Run returns nil when all tasks succeed.
func Run(ctx context.Context, tasks ...Task) error {
	logger := ctxlog.Logger(ctx)

	outcomes := make([]error, len(tasks))
	wg := &sync.WaitGroup{}

	for i, task := range tasks {
		wg.Add(1)

		go func(i int, task Task) {
			defer wg.Done()

			defer func() {
				if r := recover(); r != nil {
					logger.Error("task panicked", "task", task.Label, "panic", r)
					outcomes[i] = fmt.Errorf("task %q panicked: %v", task.Label, r)
				}
			}()

			logger.Debug("task started", "task", task.Label)

			if err := task.Fn(ctx); err != nil {
				logger.Debug("task failed", "task", task.Label, "error", err)
				outcomes[i] = fmt.Errorf("task %q: %w", task.Label, err)

				return
			}

			logger.Debug("task finished", "task", task.Label)
		}(i, task)
	}

	wg.Wait()

	var merr *multierror.Error

	for _, err := range outcomes {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if merr == nil {
		return nil
	}

	return &Error{errs: merr}
}
