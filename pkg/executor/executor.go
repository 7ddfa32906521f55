// Package executor runs classified voice commands.
//
// Each command mode (robot motion, code task, chat) has its own Executor.
// A Router selects the executor for an intent and returns a Result carrying
// the spoken reply and any side effects that already happened, so the
// pipeline can report partial progress honestly.
package executor

import (
	"context"
	"errors"

	"github.com/voxbotics/minibot/pkg/intent"
)

// ErrNoExecutor is returned when no executor handles an intent's mode.
var ErrNoExecutor = errors.New("executor: no executor for mode")

// Executor runs a single classified command.
type Executor interface {
	// Execute runs the intent to completion or cancellation. The returned
	// Result is valid even on error: SideEffects lists what already
	// happened and SpokenReply is what to say about it.
	Execute(ctx context.Context, in intent.Intent) (Result, error)
}

// Result is the outcome of executing a command.
type Result struct {
	// OK reports full success.
	OK bool

	// SpokenReply is the text to synthesize and play. May be empty.
	SpokenReply string

	// SideEffects lists observable effects in order of occurrence.
	SideEffects []SideEffect
}

// SideEffect records one observable effect of command execution.
type SideEffect struct {
	// Kind categorizes the effect: "robot_action", "code_output",
	// "frame_captured".
	Kind string `json:"kind"`

	// Payload is kind-specific detail, e.g. the action name or an
	// output line.
	Payload string `json:"payload"`
}

// Router dispatches intents to mode-specific executors.
type Router struct {
	executors map[intent.Mode]Executor
}

// NewRouter creates a router over the given mode handlers.
func NewRouter() *Router {
	return &Router{executors: make(map[intent.Mode]Executor)}
}

// Register sets the executor for a mode, replacing any existing one.
func (r *Router) Register(mode intent.Mode, ex Executor) {
	r.executors[mode] = ex
}

// Execute routes the intent to its mode's executor.
func (r *Router) Execute(ctx context.Context, in intent.Intent) (Result, error) {
	ex, ok := r.executors[in.Mode]
	if !ok {
		return Result{}, ErrNoExecutor
	}
	return ex.Execute(ctx, in)
}

// Verify Router implements Executor at compile time.
var _ Executor = (*Router)(nil)
