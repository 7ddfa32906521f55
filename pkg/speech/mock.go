package speech

import (
	"context"
	"sync"
)

// MockSink is a test double for Sink. It records played audio and can
// block until its context is cancelled to simulate long playback.
type MockSink struct {
	mu     sync.Mutex
	played [][]byte
	rates  []int

	// PlayFunc overrides the default behavior when set.
	PlayFunc func(ctx context.Context, pcm []byte, sampleRate int) error

	// Block makes Play wait for ctx cancellation after recording.
	Block bool
}

// NewMockSink creates a mock playback sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Play records the audio and returns.
func (m *MockSink) Play(ctx context.Context, pcm []byte, sampleRate int) error {
	m.mu.Lock()
	m.played = append(m.played, pcm)
	m.rates = append(m.rates, sampleRate)
	fn := m.PlayFunc
	block := m.Block
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, pcm, sampleRate)
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

// Name identifies the sink.
func (m *MockSink) Name() string { return "mock" }

// PlayCount returns how many times Play was called.
func (m *MockSink) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.played)
}

// LastRate returns the sample rate of the most recent playback, or 0.
func (m *MockSink) LastRate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rates) == 0 {
		return 0
	}
	return m.rates[len(m.rates)-1]
}

// Verify MockSink implements Sink at compile time.
var _ Sink = (*MockSink)(nil)
