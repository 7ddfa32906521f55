package audioio

import (
	"context"
	"sync"
	"time"
)

// MockSource implements Source for testing without hardware.
// Tests push chunks in with Push; the pipeline consumes them via Stream.
type MockSource struct {
	mu      sync.Mutex
	out     chan Chunk
	running bool
	closed  bool
	starts  int
	stops   int
}

// NewMockSource creates a mock audio source.
func NewMockSource() *MockSource {
	return &MockSource{
		out: make(chan Chunk, 64),
	}
}

// Start marks the source running.
func (s *MockSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	if s.out == nil {
		s.out = make(chan Chunk, 64)
	}
	s.running = true
	s.starts++
	return nil
}

// Stop marks the source stopped and closes the stream.
func (s *MockSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	s.stops++
	close(s.out)
	s.out = nil
	return nil
}

// Push delivers a chunk to the stream. No-op when the source is stopped.
func (s *MockSource) Push(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.out == nil {
		return
	}
	select {
	case s.out <- Chunk{PCM: pcm, Timestamp: time.Now()}:
	default:
	}
}

// Stream returns the chunk channel.
func (s *MockSource) Stream() <-chan Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

// Name returns "mock".
func (s *MockSource) Name() string {
	return "mock"
}

// Close stops the source permanently.
func (s *MockSource) Close() error {
	err := s.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// Running reports whether the source has been started and not stopped.
func (s *MockSource) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// StartCount returns how many times Start was called.
func (s *MockSource) StartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// StopCount returns how many times Stop actually stopped the source.
func (s *MockSource) StopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

// Ensure MockSource implements Source.
var _ Source = (*MockSource)(nil)
