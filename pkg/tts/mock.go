package tts

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Provider. It records calls and returns
// silent PCM audio proportional to the text length, or a configured error.
type Mock struct {
	mu    sync.Mutex
	calls []string
	err   error

	// SynthesizeFunc overrides the default behavior when set.
	SynthesizeFunc func(ctx context.Context, text string) (*AudioResult, error)
}

// NewMock creates a mock TTS provider.
func NewMock() *Mock {
	return &Mock{}
}

// WithError configures the mock to fail every call with err.
func (m *Mock) WithError(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Synthesize returns silent PCM16 audio sized to roughly 50ms per character.
func (m *Mock) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	err := m.err
	fn := m.SynthesizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	if err != nil {
		return nil, err
	}

	// 50ms of 16kHz PCM16 per character
	samples := len(text) * 16000 / 20
	audio := make([]byte, samples*2)

	return &AudioResult{
		Audio: audio,
		Format: AudioFormat{
			Encoding:   EncodingPCM16,
			SampleRate: 16000,
			Channels:   1,
			BitDepth:   16,
		},
		CharCount: len(text),
		Duration:  time.Duration(len(text)) * 50 * time.Millisecond,
	}, nil
}

// Health reports the configured error, or nil.
func (m *Mock) Health(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns the texts passed to Synthesize, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Synthesize calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent Synthesize text, or "".
func (m *Mock) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
