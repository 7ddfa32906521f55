package stt

import (
	"context"
	"sync"
	"time"
)

// Mock implements Transcriber for testing.
// Tests emit transcript events with EmitInterim/EmitFinal and inspect fed
// audio via AudioBytes.
type Mock struct {
	StartFunc func(ctx context.Context) error

	mu         sync.Mutex
	events     chan TranscriptEvent
	errs       chan error
	audioBytes int
	started    bool
	closed     bool
	closeCount int
}

// NewMock creates a mock transcriber.
func NewMock() *Mock {
	return &Mock{
		events: make(chan TranscriptEvent, 32),
		errs:   make(chan error, 4),
	}
}

// Start marks the session open.
func (m *Mock) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.started = true
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return nil
}

// SendAudio counts fed bytes.
func (m *Mock) SendAudio(pcm []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return ErrNotStarted
	}
	m.audioBytes += len(pcm)
	return nil
}

// Events returns the transcript channel.
func (m *Mock) Events() <-chan TranscriptEvent {
	return m.events
}

// Errors returns the error channel.
func (m *Mock) Errors() <-chan error {
	return m.errs
}

// Close closes the event channel once.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.events)
	return nil
}

// EmitInterim delivers an interim transcript event.
func (m *Mock) EmitInterim(text string) {
	m.emit(text, false)
}

// EmitFinal delivers a final transcript event.
func (m *Mock) EmitFinal(text string) {
	m.emit(text, true)
}

func (m *Mock) emit(text string, final bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.events <- TranscriptEvent{Text: text, IsFinal: final, Timestamp: time.Now()}
}

// EmitError delivers a recoverable session error.
func (m *Mock) EmitError(err error) {
	select {
	case m.errs <- err:
	default:
	}
}

// AudioBytes returns the total bytes fed via SendAudio.
func (m *Mock) AudioBytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioBytes
}

// CloseCount returns how many times Close was called.
func (m *Mock) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}

// Ensure Mock implements Transcriber.
var _ Transcriber = (*Mock)(nil)
