package robot

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimUnknownAction(t *testing.T) {
	s := NewSim(nil)
	if err := s.IssueAction(context.Background(), "backflip", nil); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("IssueAction(backflip) = %v, want ErrUnknownAction", err)
	}
}

func TestSimStatus(t *testing.T) {
	s := NewSim(nil)
	st, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Connected || st.Mode != "simulation" {
		t.Errorf("Status = %+v, want connected simulation", st)
	}
}

func TestSimActionCancelled(t *testing.T) {
	s := NewSim(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := s.IssueAction(ctx, "wave", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("IssueAction = %v, want deadline exceeded", err)
	}
}

func TestSimRecordingToggle(t *testing.T) {
	s := NewSim(nil)
	ctx := context.Background()

	if pcm, err := s.ReadAudio(ctx); err != nil || pcm != nil {
		t.Errorf("ReadAudio before recording = %v, %v, want nil, nil", pcm, err)
	}

	if err := s.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := s.StopRecording(ctx); err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
}
