// Package compensation keeps an ordered list of undo steps for side effects
// that cannot join a database transaction.
package compensation

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

type step struct {
	name string
	undo func(ctx context.Context) error
}

// Actions accumulates compensations while an operation performs side effects.
// The zero value is ready to use.
type Actions struct {
	steps []step
}

// Add registers undo for a side effect that has already happened.
func (a *Actions) Add(name string, undo func(ctx context.Context) error) {
	a.steps = append(a.steps, step{name: name, undo: undo})
}

// Len reports the number of pending compensations.
func (a *Actions) Len() int {
	return len(a.steps)
}

// Discard drops all pending compensations once the operation has committed.
func (a *Actions) Discard() {
	a.steps = nil
}

// Compensate runs every pending step in reverse order. A failing step does
// not stop the remaining ones; all failures are combined in the result.
// The list is empty afterwards.
func (a *Actions) Compensate(ctx context.Context) error {
	var err error
	for i := len(a.steps) - 1; i >= 0; i-- {
		s := a.steps[i]
		if stepErr := s.undo(ctx); stepErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", s.name, stepErr))
		}
	}
	a.steps = nil
	return err
}
