package inference

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields; calls are recorded.
type Mock struct {
	ChatFunc   func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	VisionFunc func(ctx context.Context, req *VisionRequest) (*VisionResponse, error)
	HealthFunc func(ctx context.Context) error

	mu           sync.Mutex
	chatRequests []*ChatRequest
}

// NewMock creates a mock provider that echoes the latest user message.
func NewMock() *Mock {
	return &Mock{
		ChatFunc: func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			last := ""
			for _, m := range req.Messages {
				if m.Role == RoleUser {
					last = m.Content
				}
			}
			return &ChatResponse{
				Message:      NewAssistantMessage("You said: " + last),
				FinishReason: "stop",
				Model:        "mock",
			}, nil
		},
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
			return &VisionResponse{Content: "a test scene", Model: "mock"}, nil
		},
	}
}

// Chat records the request and calls ChatFunc.
func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrNoChoices)
}

// Vision calls VisionFunc.
func (m *Mock) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	if m.VisionFunc != nil {
		return m.VisionFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrNoChoices)
}

// Health calls HealthFunc or reports healthy.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}

// ChatRequests returns the recorded chat requests.
func (m *Mock) ChatRequests() []*ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ChatRequest, len(m.chatRequests))
	copy(out, m.chatRequests)
	return out
}

// ChatCount returns the number of Chat invocations.
func (m *Mock) ChatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chatRequests)
}

// Ensure Mock implements Provider.
var _ Provider = (*Mock)(nil)
