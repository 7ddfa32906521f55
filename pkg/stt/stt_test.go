package stt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	cfg.APIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDeepgramResultParsing(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantText  string
		wantFinal bool
		wantSkip  bool
	}{
		{
			name:      "final result",
			payload:   `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hey minibot nod"}]}}`,
			wantText:  "hey minibot nod",
			wantFinal: true,
		},
		{
			name:      "interim result",
			payload:   `{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"hey mini"}]}}`,
			wantText:  "hey mini",
			wantFinal: false,
		},
		{
			name:     "empty transcript skipped",
			payload:  `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":""}]}}`,
			wantSkip: true,
		},
		{
			name:     "metadata skipped",
			payload:  `{"type":"Metadata","request_id":"abc"}`,
			wantSkip: true,
		},
		{
			name:     "no alternatives skipped",
			payload:  `{"type":"Results","is_final":true,"channel":{"alternatives":[]}}`,
			wantSkip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result deepgramResult
			if err := json.Unmarshal([]byte(tt.payload), &result); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			skip := result.Type != "Results" ||
				len(result.Channel.Alternatives) == 0 ||
				result.Channel.Alternatives[0].Transcript == ""
			if skip != tt.wantSkip {
				t.Fatalf("skip = %v, want %v", skip, tt.wantSkip)
			}
			if skip {
				return
			}

			if got := result.Channel.Alternatives[0].Transcript; got != tt.wantText {
				t.Errorf("transcript = %q, want %q", got, tt.wantText)
			}
			if result.IsFinal != tt.wantFinal {
				t.Errorf("is_final = %v, want %v", result.IsFinal, tt.wantFinal)
			}
		})
	}
}

func TestDeepgramLiveSession(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("encoding"); got != "linear16" {
			t.Errorf("encoding = %q", got)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// First binary frame is audio; answer it with a final transcript.
		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			select {
			case received <- msg:
			default:
			}
			payload := `{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hey minibot wave"}]}}`
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	d, err := NewDeepgram(cfg, nil)
	if err != nil {
		t.Fatalf("NewDeepgram: %v", err)
	}
	d.url = "ws" + strings.TrimPrefix(srv.URL, "http")

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Close()

	audio := make([]byte, 3200)
	if err := d.SendAudio(audio); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}

	select {
	case got := <-received:
		if len(got) != len(audio) {
			t.Errorf("server received %d bytes, want %d", len(got), len(audio))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received audio")
	}

	select {
	case ev := <-d.Events():
		if ev.Text != "hey minibot wave" || !ev.IsFinal {
			t.Errorf("event = %+v, want final transcript", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no transcript event")
	}
}

func TestMockLifecycle(t *testing.T) {
	m := NewMock()

	if err := m.SendAudio([]byte{1, 2}); err != ErrNotStarted {
		t.Errorf("SendAudio before Start error = %v, want ErrNotStarted", err)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.SendAudio(make([]byte, 1600)); err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}
	if m.AudioBytes() != 1600 {
		t.Errorf("AudioBytes() = %d, want 1600", m.AudioBytes())
	}

	m.EmitFinal("hello")
	ev := <-m.Events()
	if ev.Text != "hello" || !ev.IsFinal {
		t.Errorf("event = %+v, want final hello", ev)
	}

	// Close is idempotent.
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if m.CloseCount() != 2 {
		t.Errorf("CloseCount() = %d, want 2", m.CloseCount())
	}
}
