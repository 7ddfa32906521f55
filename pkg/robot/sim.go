package robot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// actionDurations approximates how long each gesture takes on hardware so
// simulated dispatch has realistic pacing.
var actionDurations = map[string]time.Duration{
	"nod":             800 * time.Millisecond,
	"shake_head":      900 * time.Millisecond,
	"wiggle_antennas": 600 * time.Millisecond,
	"wave":            1200 * time.Millisecond,
}

const defaultActionDuration = 500 * time.Millisecond

// Sim implements Controller without hardware. Actions are logged and timed,
// audio is accepted and discarded. Used when the robot daemon is unreachable
// so the rest of the dashboard stays usable in development.
type Sim struct {
	logger *slog.Logger

	mu        sync.Mutex
	recording bool
	state     string
}

// NewSim creates a simulated robot controller.
func NewSim(logger *slog.Logger) *Sim {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sim{
		logger: logger.With("component", "robot.sim"),
		state:  "idle",
	}
}

// IssueAction logs the action and sleeps for its simulated duration.
func (s *Sim) IssueAction(ctx context.Context, name string, params map[string]any) error {
	if !IsKnownAction(name) {
		return ErrUnknownAction
	}

	d, ok := actionDurations[name]
	if !ok {
		d = defaultActionDuration
	}

	s.mu.Lock()
	s.state = "moving"
	s.mu.Unlock()

	s.logger.Info("simulated action", "action", name, "duration", d)

	defer func() {
		s.mu.Lock()
		s.state = "idle"
		s.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// CaptureFrame returns a minimal valid JPEG.
func (s *Sim) CaptureFrame(ctx context.Context) ([]byte, error) {
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}

// Status reports the simulated daemon state.
func (s *Sim) Status(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Connected: true, State: s.state, Mode: "simulation"}, nil
}

// StartRecording marks the microphone as recording.
func (s *Sim) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	s.recording = true
	s.mu.Unlock()
	s.logger.Debug("simulated recording started")
	return nil
}

// StopRecording marks the microphone as stopped.
func (s *Sim) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	s.recording = false
	s.mu.Unlock()
	s.logger.Debug("simulated recording stopped")
	return nil
}

// ReadAudio returns no audio; the simulator has no microphone.
func (s *Sim) ReadAudio(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	recording := s.recording
	s.mu.Unlock()
	if !recording {
		return nil, nil
	}

	// Pace callers the way a real capture buffer would.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil, nil
	}
}

// PlayAudio discards the audio after sleeping for its real-time duration.
func (s *Sim) PlayAudio(ctx context.Context, pcm []byte, sampleRate int) error {
	if sampleRate <= 0 || len(pcm) == 0 {
		return nil
	}
	d := time.Duration(len(pcm)/2) * time.Second / time.Duration(sampleRate)
	s.logger.Info("simulated playback", "bytes", len(pcm), "duration", d)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Connected always reports true; the simulator is always available.
func (s *Sim) Connected() bool {
	return true
}

// Ensure Sim implements Controller.
var _ Controller = (*Sim)(nil)
