package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewElevenLabsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name:    "missing api key",
			opts:    []Option{WithVoice("voice-1")},
			wantErr: ErrNoAPIKey,
		},
		{
			name:    "missing voice id",
			opts:    []Option{WithAPIKey("key")},
			wantErr: ErrNoVoiceID,
		},
		{
			name: "valid",
			opts: []Option{WithAPIKey("key"), WithVoice("voice-1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewElevenLabs(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewElevenLabs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	audio := make([]byte, 3200) // 100ms of 16kHz PCM16

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("xi-api-key = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("output_format"); got != string(EncodingPCM16) {
			t.Errorf("output_format = %q, want %q", got, EncodingPCM16)
		}
		w.Write(audio)
	}))
	defer srv.Close()

	provider, err := NewElevenLabs(
		WithAPIKey("test-key"),
		WithVoice("voice-1"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs() error = %v", err)
	}
	defer provider.Close()

	result, err := provider.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(result.Audio) != len(audio) {
		t.Errorf("audio bytes = %d, want %d", len(result.Audio), len(audio))
	}
	if result.Format.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", result.Format.SampleRate)
	}
	if result.Duration != 100*time.Millisecond {
		t.Errorf("duration = %v, want 100ms", result.Duration)
	}
}

func TestElevenLabsRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte{0, 0})
	}))
	defer srv.Close()

	provider, err := NewElevenLabs(
		WithAPIKey("test-key"),
		WithVoice("voice-1"),
		WithBaseURL(srv.URL),
		WithRetry(3, time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs() error = %v", err)
	}

	if _, err := provider.Synthesize(context.Background(), "retry me"); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"message":"invalid key","status":"unauthorized"}}`))
	}))
	defer srv.Close()

	provider, err := NewElevenLabs(
		WithAPIKey("bad-key"),
		WithVoice("voice-1"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs() error = %v", err)
	}

	_, err = provider.Synthesize(context.Background(), "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("IsUnauthorized() = false, want true")
	}
	if apiErr.Message != "invalid key" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "invalid key")
	}
}

func TestChainFallback(t *testing.T) {
	failing := NewMock().WithError(errors.New("provider down"))
	working := NewMock()

	chain, err := NewChain(failing, working)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	result, err := chain.Synthesize(context.Background(), "fall back")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result == nil || len(result.Audio) == 0 {
		t.Fatal("expected audio from fallback provider")
	}
	if working.CallCount() != 1 {
		t.Errorf("fallback call count = %d, want 1", working.CallCount())
	}
}

func TestChainAllFail(t *testing.T) {
	first := NewMock().WithError(errors.New("down 1"))
	second := NewMock().WithError(errors.New("down 2"))

	chain, err := NewChain(first, second)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	_, err = chain.Synthesize(context.Background(), "no luck")
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("error = %v, want *ChainError", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("chain errors = %d, want 2", len(chainErr.Errors))
	}
}

func TestChainRequiresProvider(t *testing.T) {
	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("NewChain() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMock()

	m.Synthesize(context.Background(), "first")
	m.Synthesize(context.Background(), "second")

	if m.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", m.CallCount())
	}
	if m.LastCall() != "second" {
		t.Errorf("LastCall() = %q, want %q", m.LastCall(), "second")
	}

	m.Reset()
	if m.CallCount() != 0 {
		t.Errorf("CallCount() after Reset = %d, want 0", m.CallCount())
	}
}
