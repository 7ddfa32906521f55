package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxbotics/minibot/internal/log"
	"github.com/voxbotics/minibot/pkg/intent"
	"github.com/voxbotics/minibot/pkg/robot"
)

// RobotExecutor runs robot motion intents through the shared dispatch gate.
type RobotExecutor struct {
	dispatcher *robot.Dispatcher
	logger     *slog.Logger
}

// NewRobotExecutor creates a robot motion executor.
func NewRobotExecutor(dispatcher *robot.Dispatcher) *RobotExecutor {
	return &RobotExecutor{
		dispatcher: dispatcher,
		logger:     log.Component("executor.robot"),
	}
}

// Execute dispatches the intent's action the requested number of times.
// On partial failure the reply reports how far the sequence got.
func (e *RobotExecutor) Execute(ctx context.Context, in intent.Intent) (Result, error) {
	action := in.Action()
	count := in.Count()

	if !robot.IsKnownAction(action) {
		return Result{
			SpokenReply: fmt.Sprintf("I don't know how to %s.", action),
		}, fmt.Errorf("%w: %s", robot.ErrUnknownAction, action)
	}

	issued, err := e.dispatcher.Dispatch(ctx, action, count, paramsFor(in))

	effects := make([]SideEffect, len(issued))
	for i, name := range issued {
		effects[i] = SideEffect{Kind: "robot_action", Payload: name}
	}

	if err != nil {
		e.logger.Warn("robot command incomplete",
			"action", action,
			"issued", len(issued),
			"requested", count,
			"error", err,
		)
		reply := "Sorry, I couldn't do that."
		if len(issued) > 0 {
			reply = fmt.Sprintf("I only managed %d of %d.", len(issued), count)
		}
		return Result{SpokenReply: reply, SideEffects: effects}, err
	}

	return Result{
		OK:          true,
		SpokenReply: ackFor(action, count),
		SideEffects: effects,
	}, nil
}

// paramsFor extracts dispatch params, dropping routing keys.
func paramsFor(in intent.Intent) map[string]any {
	params := make(map[string]any)
	for k, v := range in.Params {
		if k == "action" || k == "count" {
			continue
		}
		params[k] = v
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// ackFor builds a short spoken acknowledgement.
func ackFor(action string, count int) string {
	if count > 1 {
		return fmt.Sprintf("Done, %d times!", count)
	}
	switch action {
	case "wave":
		return "Hello!"
	case "nod":
		return "Yep!"
	case "shake_head":
		return "Nope!"
	default:
		return "Done!"
	}
}

// Verify RobotExecutor implements Executor at compile time.
var _ Executor = (*RobotExecutor)(nil)
