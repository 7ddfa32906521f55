// Package robot provides interfaces and implementations for minibot robot control.
//
// The package defines small, focused capability interfaces that can be
// composed as needed. The orchestrator and executors depend only on these
// interfaces, never on a concrete transport, so everything is testable
// against the Mock implementation.
package robot

import (
	"context"
	"errors"
)

// Common errors returned by robot controllers.
var (
	// ErrNotConnected is returned when the robot daemon is unreachable.
	ErrNotConnected = errors.New("robot: not connected")

	// ErrUnknownAction is returned for action names the robot does not know.
	ErrUnknownAction = errors.New("robot: unknown action")
)

// ActionDispatcher issues named actions to the robot.
// Issuing the same action twice is safe; actions are idempotent at the
// daemon level.
type ActionDispatcher interface {
	IssueAction(ctx context.Context, name string, params map[string]any) error
}

// FrameCapturer captures a single camera frame as JPEG bytes.
type FrameCapturer interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// StatusReporter reports robot daemon status.
type StatusReporter interface {
	Status(ctx context.Context) (Status, error)
}

// AudioRecorder controls the robot microphone and reads captured PCM.
type AudioRecorder interface {
	// StartRecording begins microphone capture on the robot.
	StartRecording(ctx context.Context) error

	// StopRecording halts microphone capture. Safe to call when stopped.
	StopRecording(ctx context.Context) error

	// ReadAudio returns the next chunk of PCM16 16kHz mono audio.
	// Returns an empty slice when no audio is buffered.
	ReadAudio(ctx context.Context) ([]byte, error)
}

// Speaker plays PCM audio through the robot's speaker.
type Speaker interface {
	// PlayAudio blocks until the audio has been delivered for playback or
	// ctx is cancelled.
	PlayAudio(ctx context.Context, pcm []byte, sampleRate int) error
}

// Controller is the composite interface for full robot control.
type Controller interface {
	ActionDispatcher
	FrameCapturer
	StatusReporter
	AudioRecorder
	Speaker

	// Connected reports whether the robot daemon is reachable.
	Connected() bool
}

// Status describes the robot daemon state.
type Status struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Mode      string `json:"mode"` // "hardware" or "simulation"
}

// KnownActions lists the named actions the dashboard exposes.
// The daemon may support more; these are the ones voice commands map to.
var KnownActions = []string{
	"nod",
	"shake_head",
	"wiggle_antennas",
	"wave",
	"look_left",
	"look_right",
	"look_up",
	"look_down",
	"look_center",
	"turn_left",
	"turn_right",
}

// IsKnownAction reports whether name is in the known action list.
func IsKnownAction(name string) bool {
	for _, a := range KnownActions {
		if a == name {
			return true
		}
	}
	return false
}
