package executor

import (
	"context"
	"sync"

	"github.com/voxbotics/minibot/pkg/intent"
)

// Mock is a test double for Executor. It records executed intents and
// returns a canned result or defers to ExecuteFunc.
type Mock struct {
	mu       sync.Mutex
	executed []intent.Intent

	// ExecuteFunc overrides the default behavior when set.
	ExecuteFunc func(ctx context.Context, in intent.Intent) (Result, error)

	// Reply is the spoken reply the default behavior returns.
	Reply string

	// Err makes the default behavior fail.
	Err error
}

// NewMockExecutor creates a mock that succeeds with the given reply.
func NewMockExecutor(reply string) *Mock {
	return &Mock{Reply: reply}
}

// Execute records the intent and returns the configured result.
func (m *Mock) Execute(ctx context.Context, in intent.Intent) (Result, error) {
	m.mu.Lock()
	m.executed = append(m.executed, in)
	fn := m.ExecuteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, in)
	}
	if m.Err != nil {
		return Result{SpokenReply: m.Reply}, m.Err
	}
	return Result{OK: true, SpokenReply: m.Reply}, nil
}

// Executed returns the intents passed to Execute, in order.
func (m *Mock) Executed() []intent.Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]intent.Intent, len(m.executed))
	copy(out, m.executed)
	return out
}

// ExecuteCount returns how many times Execute was called.
func (m *Mock) ExecuteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.executed)
}

// Verify Mock implements Executor at compile time.
var _ Executor = (*Mock)(nil)
