package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const deepgramListenURL = "wss://api.deepgram.com/v1/listen"

// keepAliveInterval is how often a KeepAlive frame is sent so Deepgram does
// not drop an idle connection.
const keepAliveInterval = 5 * time.Second

// Deepgram implements Transcriber against the Deepgram live streaming API.
type Deepgram struct {
	config Config
	logger *slog.Logger
	url    string

	mu      sync.Mutex
	conn    *websocket.Conn
	events  chan TranscriptEvent
	errs    chan error
	cancel  context.CancelFunc
	started bool
	closed  bool
}

// NewDeepgram creates a Deepgram live transcriber.
func NewDeepgram(cfg Config, logger *slog.Logger) (*Deepgram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deepgram{
		config: cfg,
		logger: logger.With("component", "stt.deepgram"),
		url:    deepgramListenURL,
		events: make(chan TranscriptEvent, 32),
		errs:   make(chan error, 4),
	}, nil
}

// Start dials the listen websocket and begins the read and keepalive loops.
func (d *Deepgram) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.started {
		return nil
	}

	listenURL, err := url.Parse(d.url)
	if err != nil {
		return fmt.Errorf("stt: invalid listen url: %w", err)
	}
	q := listenURL.Query()
	q.Set("encoding", "linear16")
	q.Set("sample_rate", "16000")
	q.Set("channels", "1")
	q.Set("model", d.config.Model)
	q.Set("language", d.config.Language)
	q.Set("smart_format", "true")
	q.Set("endpointing", strconv.Itoa(d.config.EndpointingMS))
	if d.config.InterimResults {
		q.Set("interim_results", "true")
	}
	listenURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, listenURL.String(),
		http.Header{"Authorization": {"Token " + d.config.APIKey}})
	if err != nil {
		return fmt.Errorf("stt: failed to open deepgram connection: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	d.conn = conn
	d.cancel = cancel
	d.started = true

	go d.readLoop(conn)
	go d.keepAliveLoop(loopCtx)

	d.logger.Info("deepgram session started", "model", d.config.Model)
	return nil
}

// SendAudio writes a PCM16 chunk to the live connection.
func (d *Deepgram) SendAudio(pcm []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return ErrNotStarted
	}
	if err := d.conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		return fmt.Errorf("stt: failed to send audio: %w", err)
	}
	return nil
}

// Events returns the transcript channel.
func (d *Deepgram) Events() <-chan TranscriptEvent {
	return d.events
}

// Errors returns the recoverable error channel.
func (d *Deepgram) Errors() <-chan error {
	return d.errs
}

// Close finishes the stream and tears down the connection. Idempotent.
func (d *Deepgram) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.cancel != nil {
		d.cancel()
	}
	if d.conn != nil {
		// Best effort: tell Deepgram to flush and close before dropping TCP.
		d.conn.WriteJSON(map[string]string{"type": "CloseStream"})
		d.conn.Close()
		d.conn = nil
	}
	return nil
}

// deepgramResult is the subset of the Results message the pipeline needs.
type deepgramResult struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// readLoop parses provider messages into transcript events until the
// connection drops. A disconnect is reported as a recoverable error and the
// event channel is closed.
func (d *Deepgram) readLoop(conn *websocket.Conn) {
	defer close(d.events)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			d.mu.Lock()
			closed := d.closed
			d.mu.Unlock()
			if !closed {
				d.logger.Warn("deepgram connection lost", "error", err)
				select {
				case d.errs <- fmt.Errorf("stt: connection lost: %w", err):
				default:
				}
			}
			return
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		var result deepgramResult
		if err := json.Unmarshal(msg, &result); err != nil {
			d.logger.Warn("failed to parse deepgram message", "error", err)
			continue
		}
		if result.Type != "Results" || len(result.Channel.Alternatives) == 0 {
			continue
		}

		text := result.Channel.Alternatives[0].Transcript
		if text == "" {
			continue
		}

		select {
		case d.events <- TranscriptEvent{
			Text:      text,
			IsFinal:   result.IsFinal,
			Timestamp: time.Now(),
		}:
		default:
			// Consumer is behind; drop rather than block the read loop.
			d.logger.Warn("transcript event dropped", "final", result.IsFinal)
		}
	}
}

// keepAliveLoop pings the provider while the session is open.
func (d *Deepgram) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			conn := d.conn
			if conn != nil {
				if err := conn.WriteJSON(map[string]string{"type": "KeepAlive"}); err != nil {
					d.logger.Debug("keepalive write failed", "error", err)
				}
			}
			d.mu.Unlock()
		}
	}
}

// Ensure Deepgram implements Transcriber.
var _ Transcriber = (*Deepgram)(nil)
