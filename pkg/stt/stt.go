// Package stt provides streaming speech-to-text for the voice pipeline.
//
// A Transcriber wraps a streaming provider session: the caller feeds PCM16
// 16kHz mono audio in and receives interim/final transcript events on a
// channel. Provider disconnects surface as recoverable errors on the error
// channel, never as a crash.
package stt

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when the provider API key is missing.
	ErrNoAPIKey = errors.New("stt: API key required")

	// ErrNotStarted is returned when feeding audio before Start.
	ErrNotStarted = errors.New("stt: transcriber not started")

	// ErrClosed is returned when using a transcriber after Close.
	ErrClosed = errors.New("stt: transcriber closed")
)

// TranscriptEvent is one interim or final transcript from the provider.
// Interim events may be superseded repeatedly; only the last interim before
// a final event is meaningful.
type TranscriptEvent struct {
	// Text is the transcribed speech.
	Text string

	// IsFinal marks a settled transcript for the utterance.
	IsFinal bool

	// Timestamp is when the event was received.
	Timestamp time.Time
}

// Transcriber is a streaming speech-to-text session.
type Transcriber interface {
	// Start opens the provider connection and begins the read loop.
	Start(ctx context.Context) error

	// SendAudio feeds a PCM16 16kHz mono audio chunk to the provider.
	SendAudio(pcm []byte) error

	// Events returns the transcript event channel.
	// The channel is closed when the session ends.
	Events() <-chan TranscriptEvent

	// Errors returns the channel carrying recoverable session errors
	// (e.g., provider disconnects).
	Errors() <-chan error

	// Close tears down the provider connection. Idempotent.
	Close() error
}

// Config holds transcription session parameters.
type Config struct {
	// APIKey authenticates against the provider.
	APIKey string

	// Model is the provider STT model (default: "nova-2").
	Model string

	// Language hint (default: "en-US").
	Language string

	// InterimResults requests provisional transcripts for UI feedback.
	InterimResults bool

	// EndpointingMS is the provider silence endpointing in milliseconds.
	EndpointingMS int
}

// DefaultConfig returns sensible defaults for live transcription.
func DefaultConfig() Config {
	return Config{
		Model:          "nova-2",
		Language:       "en-US",
		InterimResults: true,
		EndpointingMS:  300,
	}
}

// Validate checks required parameters.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
