package robot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Dispatcher serializes all action dispatch through a single gate.
//
// Both the voice pipeline and the manual command path issue actions via the
// same Dispatcher so motion sequences never interleave. Dispatch blocks
// while another sequence is in flight.
type Dispatcher struct {
	robot  ActionDispatcher
	logger *slog.Logger

	mu sync.Mutex // the dispatch gate
}

// NewDispatcher creates a serialized action dispatcher.
func NewDispatcher(robot ActionDispatcher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		robot:  robot,
		logger: logger.With("component", "robot.dispatcher"),
	}
}

// Dispatch issues the named action count times in order. It returns the
// list of actions actually issued, so callers can tell "executed 2 of 3"
// apart from full success. A cancelled context stops the sequence between
// actions.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, count int, params map[string]any) ([]string, error) {
	if count < 1 {
		count = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	issued := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return issued, err
		}
		if err := d.robot.IssueAction(ctx, name, params); err != nil {
			d.logger.Warn("action dispatch failed",
				"action", name,
				"issued", len(issued),
				"requested", count,
				"error", err,
			)
			return issued, fmt.Errorf("dispatch %s (%d of %d): %w", name, i+1, count, err)
		}
		issued = append(issued, name)
	}

	d.logger.Debug("dispatched actions", "action", name, "count", count)
	return issued, nil
}

// DispatchSequence issues a heterogeneous ordered sequence of actions under
// one gate acquisition. It stops at the first failure and returns what was
// issued.
func (d *Dispatcher) DispatchSequence(ctx context.Context, names []string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	issued := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return issued, err
		}
		if err := d.robot.IssueAction(ctx, name, nil); err != nil {
			return issued, fmt.Errorf("dispatch %s: %w", name, err)
		}
		issued = append(issued, name)
	}
	return issued, nil
}
