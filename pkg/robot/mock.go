package robot

import (
	"context"
	"sync"
)

// Mock implements Controller for testing.
// All methods can be customized via function fields; calls are recorded.
type Mock struct {
	IssueActionFunc    func(ctx context.Context, name string, params map[string]any) error
	CaptureFrameFunc   func(ctx context.Context) ([]byte, error)
	StatusFunc         func(ctx context.Context) (Status, error)
	StartRecordingFunc func(ctx context.Context) error
	StopRecordingFunc  func(ctx context.Context) error
	ReadAudioFunc      func(ctx context.Context) ([]byte, error)
	PlayAudioFunc      func(ctx context.Context, pcm []byte, sampleRate int) error

	mu      sync.Mutex
	actions []string
	plays   int
}

// NewMock creates a mock controller that accepts everything.
func NewMock() *Mock {
	return &Mock{}
}

// IssueAction records the action and calls IssueActionFunc if set.
func (m *Mock) IssueAction(ctx context.Context, name string, params map[string]any) error {
	m.mu.Lock()
	m.actions = append(m.actions, name)
	m.mu.Unlock()

	if m.IssueActionFunc != nil {
		return m.IssueActionFunc(ctx, name, params)
	}
	return nil
}

// CaptureFrame calls CaptureFrameFunc or returns a tiny placeholder frame.
func (m *Mock) CaptureFrame(ctx context.Context) ([]byte, error) {
	if m.CaptureFrameFunc != nil {
		return m.CaptureFrameFunc(ctx)
	}
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

// Status calls StatusFunc or reports a connected simulation.
func (m *Mock) Status(ctx context.Context) (Status, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return Status{Connected: true, State: "running", Mode: "simulation"}, nil
}

// StartRecording calls StartRecordingFunc if set.
func (m *Mock) StartRecording(ctx context.Context) error {
	if m.StartRecordingFunc != nil {
		return m.StartRecordingFunc(ctx)
	}
	return nil
}

// StopRecording calls StopRecordingFunc if set.
func (m *Mock) StopRecording(ctx context.Context) error {
	if m.StopRecordingFunc != nil {
		return m.StopRecordingFunc(ctx)
	}
	return nil
}

// ReadAudio calls ReadAudioFunc or returns no audio.
func (m *Mock) ReadAudio(ctx context.Context) ([]byte, error) {
	if m.ReadAudioFunc != nil {
		return m.ReadAudioFunc(ctx)
	}
	return nil, nil
}

// PlayAudio records the playback and calls PlayAudioFunc if set.
func (m *Mock) PlayAudio(ctx context.Context, pcm []byte, sampleRate int) error {
	m.mu.Lock()
	m.plays++
	m.mu.Unlock()

	if m.PlayAudioFunc != nil {
		return m.PlayAudioFunc(ctx, pcm, sampleRate)
	}
	return nil
}

// Connected always reports true for the mock.
func (m *Mock) Connected() bool {
	return true
}

// Actions returns the recorded action names in dispatch order.
func (m *Mock) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.actions))
	copy(out, m.actions)
	return out
}

// PlayCount returns how many times PlayAudio was called.
func (m *Mock) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = nil
	m.plays = 0
}

// Ensure Mock implements Controller.
var _ Controller = (*Mock)(nil)
