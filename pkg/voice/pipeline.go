// Package voice implements the voice command pipeline.
//
// The Pipeline is a state machine tying together audio capture, streaming
// transcription, wake-phrase gating, intent classification, command
// execution, and spoken replies:
//
//	Stopped -> Listening -> Processing -> Speaking -> Listening -> ...
//
// Transitions are serialized through a single writer. Observers receive a
// push event per transition and per transcript.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxbotics/minibot/pkg/audioio"
	"github.com/voxbotics/minibot/pkg/executor"
	"github.com/voxbotics/minibot/pkg/intent"
	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/stt"
	"github.com/voxbotics/minibot/pkg/wake"
)

// Control errors.
var (
	// ErrAlreadyRunning is returned by Start when the pipeline is active.
	ErrAlreadyRunning = errors.New("voice: pipeline already running")

	// ErrNotRunning is returned by Stop when the pipeline is stopped.
	ErrNotRunning = errors.New("voice: pipeline not running")
)

// State is the pipeline state.
type State string

const (
	// StateStopped means the pipeline is idle; no audio is captured.
	StateStopped State = "stopped"

	// StateListening means audio flows to the transcriber and finals are
	// checked for a wake phrase.
	StateListening State = "listening"

	// StateProcessing means a command is being classified and executed.
	StateProcessing State = "processing"

	// StateSpeaking means the reply is being synthesized and played.
	StateSpeaking State = "speaking"
)

// TranscriberFactory creates a fresh transcription session. The pipeline
// calls it on every Start so a stopped session can be restarted.
type TranscriberFactory func() (stt.Transcriber, error)

// Sayer synthesizes and plays a spoken reply.
type Sayer interface {
	Say(ctx context.Context, text string) error
}

// Deps are the pipeline's collaborators.
type Deps struct {
	// Source supplies PCM audio chunks.
	Source audioio.Source

	// Transcriber creates the streaming STT session.
	Transcriber TranscriberFactory

	// Classifier maps command text to intents. Defaults to the rule
	// classifier when nil.
	Classifier *intent.Classifier

	// Executor runs classified commands (usually an executor.Router).
	Executor executor.Executor

	// Speaker voices replies.
	Speaker Sayer

	// Feedback, when set, drives acknowledgement gestures (antenna
	// wiggle on wake, nod before a code task).
	Feedback *robot.Dispatcher

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Pipeline is the voice command orchestrator. Create one per process.
type Pipeline struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger
	obs    *observers

	// mu guards state, cancel, done, sessionID. All transitions happen
	// under it, so they are totally ordered. Events are published after
	// the lock is released; observers may safely call back into the
	// pipeline.
	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	done      chan struct{}
	sessionID string
	lastWake  time.Time
	fatalErr  error

	// dispatchMu is the single gate shared by the pipeline's own command
	// handling and ExecuteManual, so commands never double-dispatch.
	dispatchMu sync.Mutex
}

// New creates a pipeline. It does not start audio capture.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Source == nil {
		return nil, errors.New("voice: audio source required")
	}
	if deps.Transcriber == nil {
		return nil, errors.New("voice: transcriber factory required")
	}
	if deps.Executor == nil {
		return nil, errors.New("voice: executor required")
	}
	if deps.Speaker == nil {
		return nil, errors.New("voice: speaker required")
	}
	if deps.Classifier == nil {
		deps.Classifier = intent.NewClassifier()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Pipeline{
		cfg:    cfg.withDefaults(),
		deps:   deps,
		logger: deps.Logger.With("component", "voice.pipeline"),
		obs:    newObservers(),
		state:  StateStopped,
	}, nil
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Status is a point-in-time snapshot for status queries.
type Status struct {
	State       State    `json:"state"`
	SessionID   string   `json:"session_id,omitempty"`
	WakePhrases []string `json:"wake_phrases"`
	Running     bool     `json:"running"`
}

// Status returns a snapshot of the pipeline.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		State:       p.state,
		SessionID:   p.sessionID,
		WakePhrases: p.cfg.WakePhrases,
		Running:     p.state != StateStopped,
	}
}

// AddObserver registers an event callback and returns a handle for
// RemoveObserver. Observers can attach at any time.
func (p *Pipeline) AddObserver(fn func(Event)) int {
	return p.obs.add(fn)
}

// RemoveObserver detaches a previously added observer.
func (p *Pipeline) RemoveObserver(id int) {
	p.obs.remove(id)
}

// Err returns the fatal error that forced the pipeline to stop, if any.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fatalErr
}

// Start opens the audio and transcription sessions and begins listening.
// It returns ErrAlreadyRunning if the pipeline is not stopped.
func (p *Pipeline) Start() error {
	p.mu.Lock()

	if p.state != StateStopped {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}

	tr, err := p.deps.Transcriber()
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("create transcriber: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := tr.Start(ctx); err != nil {
		cancel()
		p.mu.Unlock()
		return fmt.Errorf("start transcriber: %w", err)
	}
	if err := p.deps.Source.Start(ctx); err != nil {
		tr.Close()
		cancel()
		p.mu.Unlock()
		return fmt.Errorf("start audio source: %w", err)
	}

	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.sessionID = uuid.NewString()
	p.fatalErr = nil
	sessionID := p.sessionID
	ev := p.markTransitionLocked(StateListening, nil)
	p.mu.Unlock()

	p.obs.notify(ev)

	go p.pumpAudio(ctx, tr)
	go p.run(ctx, tr, done)

	p.logger.Info("pipeline started", "session_id", sessionID)
	return nil
}

// StartIfConfigured starts the pipeline when Config.AutoStart is set and
// is a no-op otherwise.
func (p *Pipeline) StartIfConfigured() error {
	if !p.cfg.AutoStart {
		return nil
	}
	return p.Start()
}

// Stop cancels in-flight work, releases the audio subscription, and forces
// the state to Stopped. Safe to call repeatedly; extra calls return
// ErrNotRunning without side effects.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return ErrNotRunning
	}

	// Cancel before releasing the lock so an executor finishing during
	// the observer callbacks cannot drive the state machine out of
	// Stopped.
	p.cancel()
	done := p.done
	p.cancel = nil
	p.done = nil
	ev := p.markTransitionLocked(StateStopped, nil)
	p.mu.Unlock()

	p.obs.notify(ev)

	p.deps.Source.Stop()
	if done != nil {
		<-done
	}

	p.logger.Info("pipeline stopped")
	return nil
}

// ExecuteManual classifies and executes a one-off command outside the
// voice loop, serialized through the same dispatch gate so it never
// interleaves with a spoken command. The pipeline state is unaffected.
func (p *Pipeline) ExecuteManual(ctx context.Context, text string) (executor.Result, error) {
	in := p.deps.Classifier.Classify(text)

	p.dispatchMu.Lock()
	result, err := p.deps.Executor.Execute(ctx, in)
	p.dispatchMu.Unlock()

	p.obs.notify(Event{
		Type:      EventResponse,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"command": text,
			"reply":   result.SpokenReply,
			"success": result.OK,
			"manual":  true,
		},
	})
	return result, err
}

// pumpAudio forwards captured chunks to the transcriber until the session
// ends.
func (p *Pipeline) pumpAudio(ctx context.Context, tr stt.Transcriber) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-p.deps.Source.Stream():
			if !ok {
				return
			}
			if err := tr.SendAudio(chunk.PCM); err != nil {
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("send audio failed", "error", err)
			}
		}
	}
}

// run is the main event loop. It owns all transitions after Start.
func (p *Pipeline) run(ctx context.Context, tr stt.Transcriber, done chan struct{}) {
	defer close(done)
	defer tr.Close()

	errs := tr.Errors()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-tr.Events():
			if !ok {
				if ctx.Err() == nil {
					p.fatal(errors.New("voice: transcript stream ended unexpectedly"))
				}
				return
			}
			p.handleTranscript(ctx, ev)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			// Recoverable: surface to observers, keep listening.
			p.logger.Warn("transcription error", "error", err)
			p.obs.notify(Event{
				Type:      EventError,
				Timestamp: time.Now(),
				SessionID: p.sessionIDSnapshot(),
				Payload:   map[string]any{"error": err.Error()},
			})
		}
	}
}

// handleTranscript gates transcripts on the wake phrase and drives one
// command cycle to completion.
func (p *Pipeline) handleTranscript(ctx context.Context, ev stt.TranscriptEvent) {
	if wake.Normalize(ev.Text) == "" {
		return
	}

	p.obs.notify(Event{
		Type:      EventTranscript,
		Timestamp: ev.Timestamp,
		SessionID: p.sessionIDSnapshot(),
		Payload:   map[string]any{"text": ev.Text, "is_final": ev.IsFinal},
	})

	// Interim transcripts are UI feedback only.
	if !ev.IsFinal {
		return
	}

	p.mu.Lock()
	if p.state != StateListening || ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	if p.cfg.WakeCooldown > 0 && time.Since(p.lastWake) < p.cfg.WakeCooldown {
		p.mu.Unlock()
		return
	}
	command, ok := wake.Extract(ev.Text, p.cfg.WakePhrases)
	if !ok || command == "" {
		p.mu.Unlock()
		return
	}
	p.lastWake = time.Now()
	commandID := uuid.NewString()
	stateEv := p.markTransitionLocked(StateProcessing, map[string]any{"command": command})
	p.mu.Unlock()

	p.obs.notify(stateEv)
	p.obs.notify(Event{
		Type:      EventCommand,
		Timestamp: time.Now(),
		SessionID: stateEv.SessionID,
		CommandID: commandID,
		Payload:   map[string]any{"text": command},
	})

	p.runCommand(ctx, commandID, command)
}

// runCommand executes one command and speaks the outcome. It always moves
// the pipeline back to Listening unless the session was cancelled.
func (p *Pipeline) runCommand(ctx context.Context, commandID, command string) {
	// Acknowledge the wake phrase with a gesture.
	p.gesture(ctx, "wiggle_antennas", 2)

	in := p.deps.Classifier.Classify(command)
	if in.Mode == intent.ModeCode {
		p.gesture(ctx, "nod", 1)
	}

	p.dispatchMu.Lock()
	result, execErr := p.deps.Executor.Execute(ctx, in)
	p.dispatchMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	reply := result.SpokenReply
	if execErr != nil {
		p.logger.Warn("command failed",
			"command_id", commandID,
			"mode", string(in.Mode),
			"error", execErr,
		)
		if reply == "" {
			reply = p.cfg.Apology
		}
	}

	p.obs.notify(Event{
		Type:      EventResponse,
		Timestamp: time.Now(),
		SessionID: p.sessionIDSnapshot(),
		CommandID: commandID,
		Payload: map[string]any{
			"command":      command,
			"reply":        reply,
			"success":      result.OK,
			"side_effects": result.SideEffects,
		},
	})

	p.transition(ctx, StateSpeaking, map[string]any{"reply": reply})

	if reply != "" {
		if err := p.deps.Speaker.Say(ctx, reply); err != nil && ctx.Err() == nil {
			p.logger.Warn("speak failed", "command_id", commandID, "error", err)
		}
	}

	p.transition(ctx, StateListening, nil)
}

// gesture issues a feedback action without blocking the command cycle.
func (p *Pipeline) gesture(ctx context.Context, action string, count int) {
	if p.deps.Feedback == nil {
		return
	}
	go func() {
		if _, err := p.deps.Feedback.Dispatch(ctx, action, count, nil); err != nil && ctx.Err() == nil {
			p.logger.Debug("feedback gesture failed", "action", action, "error", err)
		}
	}()
}

// fatal forces the pipeline to Stopped and notifies observers.
func (p *Pipeline) fatal(err error) {
	p.logger.Error("fatal pipeline error", "error", err)

	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return
	}
	p.fatalErr = err
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = nil
	p.done = nil
	ev := p.markTransitionLocked(StateStopped, map[string]any{"error": err.Error()})
	p.mu.Unlock()

	p.obs.notify(ev)

	p.deps.Source.Stop()
}

// transition moves to the given state unless the session was cancelled.
// Stopped is terminal for a session; only Start leaves it.
func (p *Pipeline) transition(ctx context.Context, to State, payload map[string]any) {
	p.mu.Lock()
	if ctx.Err() != nil || p.state == StateStopped || p.state == to {
		p.mu.Unlock()
		return
	}
	ev := p.markTransitionLocked(to, payload)
	p.mu.Unlock()
	p.obs.notify(ev)
}

// markTransitionLocked records a state change and returns the stamped
// event for publication. Caller holds p.mu and must notify after unlock
// so observers can call back into the pipeline.
func (p *Pipeline) markTransitionLocked(to State, payload map[string]any) Event {
	prev := p.state
	p.state = to
	p.logger.Debug("state transition", "from", string(prev), "to", string(to))
	return Event{
		Type:      EventState,
		Previous:  prev,
		State:     to,
		SessionID: p.sessionID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func (p *Pipeline) sessionIDSnapshot() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}
