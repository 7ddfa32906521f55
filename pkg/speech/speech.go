// Package speech turns spoken replies into audible output.
//
// A Speaker composes a TTS provider with a playback Sink: text goes in,
// synthesized PCM comes out of the provider, and the sink renders it on
// the robot speaker or a local fallback.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxbotics/minibot/internal/log"
	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/tts"
)

// ErrNothingToSay is returned when the reply text is empty after trimming.
var ErrNothingToSay = errors.New("speech: nothing to say")

// Sink renders PCM audio. Play blocks until playback completes, the
// context is cancelled, or the sink fails.
type Sink interface {
	// Play renders mono PCM16 audio at the given sample rate.
	Play(ctx context.Context, pcm []byte, sampleRate int) error

	// Name identifies the sink for logging.
	Name() string
}

// RobotSink plays audio through the robot's onboard speaker.
type RobotSink struct {
	speaker robot.Speaker
}

// NewRobotSink creates a sink backed by the robot speaker.
func NewRobotSink(speaker robot.Speaker) *RobotSink {
	return &RobotSink{speaker: speaker}
}

// Play sends the audio to the robot speaker.
func (s *RobotSink) Play(ctx context.Context, pcm []byte, sampleRate int) error {
	return s.speaker.PlayAudio(ctx, pcm, sampleRate)
}

// Name identifies the sink.
func (s *RobotSink) Name() string { return "robot" }

// Speaker synthesizes text and plays the result.
type Speaker struct {
	provider tts.Provider
	sink     Sink
	logger   *slog.Logger

	// PlaybackMargin is added to the estimated audio duration to bound
	// how long a single playback may take. Zero means no bound beyond
	// the caller's context.
	PlaybackMargin time.Duration
}

// NewSpeaker creates a Speaker from a TTS provider and a playback sink.
func NewSpeaker(provider tts.Provider, sink Sink) *Speaker {
	return &Speaker{
		provider:       provider,
		sink:           sink,
		logger:         log.Component("speech"),
		PlaybackMargin: 5 * time.Second,
	}
}

// Say synthesizes text and blocks until playback finishes or ctx is
// cancelled. Cancellation mid-playback stops the sink.
func (s *Speaker) Say(ctx context.Context, text string) error {
	if text == "" {
		return ErrNothingToSay
	}

	result, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	playCtx := ctx
	if s.PlaybackMargin > 0 && result.Duration > 0 {
		var cancel context.CancelFunc
		playCtx, cancel = context.WithTimeout(ctx, result.Duration+s.PlaybackMargin)
		defer cancel()
	}

	start := time.Now()
	if err := s.sink.Play(playCtx, result.Audio, result.Format.SampleRate); err != nil {
		return fmt.Errorf("playback via %s: %w", s.sink.Name(), err)
	}

	s.logger.Debug("playback complete",
		"chars", result.CharCount,
		"audio_bytes", len(result.Audio),
		"sink", s.sink.Name(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
