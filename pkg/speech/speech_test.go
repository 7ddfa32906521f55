package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voxbotics/minibot/pkg/tts"
)

func TestSaySynthesizesAndPlays(t *testing.T) {
	provider := tts.NewMock()
	sink := NewMockSink()
	speaker := NewSpeaker(provider, sink)

	if err := speaker.Say(context.Background(), "hello there"); err != nil {
		t.Fatalf("Say() error = %v", err)
	}

	if provider.CallCount() != 1 {
		t.Errorf("synthesize calls = %d, want 1", provider.CallCount())
	}
	if provider.LastCall() != "hello there" {
		t.Errorf("synthesized text = %q, want %q", provider.LastCall(), "hello there")
	}
	if sink.PlayCount() != 1 {
		t.Errorf("play calls = %d, want 1", sink.PlayCount())
	}
	if sink.LastRate() != 16000 {
		t.Errorf("sample rate = %d, want 16000", sink.LastRate())
	}
}

func TestSayEmptyText(t *testing.T) {
	speaker := NewSpeaker(tts.NewMock(), NewMockSink())

	if err := speaker.Say(context.Background(), ""); !errors.Is(err, ErrNothingToSay) {
		t.Errorf("Say(\"\") error = %v, want ErrNothingToSay", err)
	}
}

func TestSaySynthesisFailure(t *testing.T) {
	provider := tts.NewMock().WithError(errors.New("api down"))
	sink := NewMockSink()
	speaker := NewSpeaker(provider, sink)

	if err := speaker.Say(context.Background(), "hello"); err == nil {
		t.Fatal("Say() error = nil, want synthesis error")
	}
	if sink.PlayCount() != 0 {
		t.Errorf("play calls = %d, want 0 after synthesis failure", sink.PlayCount())
	}
}

func TestSayCancelledMidPlayback(t *testing.T) {
	sink := NewMockSink()
	sink.Block = true
	speaker := NewSpeaker(tts.NewMock(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- speaker.Say(ctx, "a long reply that keeps playing")
	}()

	// Let playback start, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Say() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Say() did not return after cancellation")
	}
}

func TestSayPlaybackBounded(t *testing.T) {
	sink := NewMockSink()
	sink.Block = true
	speaker := NewSpeaker(tts.NewMock(), sink)
	speaker.PlaybackMargin = 10 * time.Millisecond

	// Mock audio duration is 50ms per char; a 1-char reply bounds
	// the playback at 60ms.
	start := time.Now()
	err := speaker.Say(context.Background(), "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Say() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Say() took %v, playback bound not applied", elapsed)
	}
}
