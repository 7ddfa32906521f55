package voice

import (
	"sync"
	"time"
)

// Event types pushed to observers.
const (
	// EventState marks a pipeline state transition.
	EventState = "state"

	// EventTranscript carries interim and final transcripts.
	EventTranscript = "transcript"

	// EventCommand marks wake-phrase command detection.
	EventCommand = "command"

	// EventResponse carries the executed command's outcome.
	EventResponse = "response"

	// EventError carries recoverable session errors.
	EventError = "error"
)

// Event is one pipeline notification pushed to observers.
type Event struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// Previous and State are set for state transition events.
	Previous State `json:"previous,omitempty"`
	State    State `json:"state,omitempty"`

	// SessionID identifies the pipeline session.
	SessionID string `json:"session_id,omitempty"`

	// CommandID identifies the command cycle, when one is active.
	CommandID string `json:"command_id,omitempty"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Payload is type-specific detail (transcript text, reply, error).
	Payload map[string]any `json:"payload,omitempty"`
}

// observers is a registry of event callbacks that can be attached and
// detached while the pipeline runs.
type observers struct {
	mu   sync.RWMutex
	next int
	fns  map[int]func(Event)
}

func newObservers() *observers {
	return &observers{fns: make(map[int]func(Event))}
}

// add registers a callback and returns its handle.
func (o *observers) add(fn func(Event)) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	o.fns[o.next] = fn
	return o.next
}

// remove detaches the callback with the given handle.
func (o *observers) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.fns, id)
}

// notify invokes every registered callback. Callbacks must be fast; slow
// consumers should hand off to their own channel.
func (o *observers) notify(ev Event) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, fn := range o.fns {
		fn(ev)
	}
}
