// Package audioio provides the audio capture contract for the voice pipeline.
//
// All sources produce fixed-format audio: 16kHz mono PCM16. The chunk size
// is configurable but must stay consistent within a session; delivering a
// different format is a contract violation on the source side.
package audioio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrSourceClosed is returned when starting a source after Close.
var ErrSourceClosed = errors.New("audioio: source closed")

// Fixed audio format for the voice pipeline.
const (
	SampleRate = 16000
	Channels   = 1
	BitDepth   = 16
)

// Chunk is a chunk of PCM16 audio frames.
type Chunk struct {
	// PCM contains little-endian PCM16 bytes.
	PCM []byte

	// Timestamp is when the chunk was captured.
	Timestamp time.Time
}

// Duration returns the playback duration of the chunk.
func (c Chunk) Duration() time.Duration {
	samples := len(c.PCM) / 2 / Channels
	return time.Duration(samples) * time.Second / SampleRate
}

// Source captures audio from a microphone or other input device.
type Source interface {
	// Start begins audio capture. After Start, chunks arrive on Stream.
	Start(ctx context.Context) error

	// Stop halts audio capture and closes the stream channel.
	// It is safe to call Stop multiple times.
	Stop() error

	// Stream returns the channel receiving captured chunks.
	// The channel is closed when the source stops.
	Stream() <-chan Chunk

	// Name returns the backend name (e.g., "robot", "mock").
	Name() string

	// Close releases all resources. The source cannot be restarted after.
	io.Closer
}

// Config holds source configuration.
type Config struct {
	// ChunkDuration is how much audio each chunk carries.
	// Default: 50ms (800 samples at 16kHz).
	ChunkDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkDuration: 50 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ChunkDuration <= 0 {
		return fmt.Errorf("chunk_duration must be positive, got %v", c.ChunkDuration)
	}
	return nil
}

// ChunkBytes returns the size of one chunk in bytes at the fixed format.
func (c *Config) ChunkBytes() int {
	samples := int(float64(SampleRate) * c.ChunkDuration.Seconds())
	return samples * Channels * 2
}
