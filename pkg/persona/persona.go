// Package persona holds the personality catalog for the chat executor.
//
// A personality is a system prompt plus sampling temperature. The registry
// tracks the active personality; the chat executor reads it per request so
// a switch takes effect on the next reply.
package persona

import (
	"fmt"
	"sort"
	"sync"
)

// Personality configures the chat voice.
type Personality struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Prompt      string  `json:"-"`
	Temperature float64 `json:"temperature"`
}

// DefaultName is the personality used when none is selected.
const DefaultName = "friendly"

// catalog is the built-in personality set. Prompts instruct the model to
// keep replies short (they are spoken aloud) and to use bracket directives
// for robot actions.
var catalog = map[string]Personality{
	"friendly": {
		Name:        "friendly",
		Description: "Warm, upbeat helper",
		Temperature: 0.7,
		Prompt: "You are Minibot, a small friendly desk robot. Keep replies short and " +
			"conversational since they are spoken aloud. You can perform physical actions " +
			"by embedding them in square brackets, e.g. [nod], [wave], [wiggle_antennas], " +
			"[look_left], [shake_head]. Use at most one or two actions per reply.",
	},
	"sarcastic": {
		Name:        "sarcastic",
		Description: "Dry wit, reluctant compliance",
		Temperature: 0.9,
		Prompt: "You are Minibot, a small desk robot with a dry sense of humor. Be a bit " +
			"sarcastic but never mean. Keep replies short, they are spoken aloud. Physical " +
			"actions go in square brackets, e.g. [shake_head], [nod], [look_right].",
	},
	"teacher": {
		Name:        "teacher",
		Description: "Patient explainer",
		Temperature: 0.5,
		Prompt: "You are Minibot, a patient robot tutor. Explain things simply in one or " +
			"two short sentences, they are spoken aloud. Physical actions go in square " +
			"brackets, e.g. [nod], [look_up].",
	},
}

// Registry tracks the active personality.
type Registry struct {
	mu      sync.RWMutex
	current string
}

// NewRegistry creates a registry with the default personality active.
func NewRegistry() *Registry {
	return &Registry{current: DefaultName}
}

// Current returns the active personality.
func (r *Registry) Current() Personality {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return catalog[r.current]
}

// Set activates the named personality.
func (r *Registry) Set(name string) error {
	if _, ok := catalog[name]; !ok {
		return fmt.Errorf("persona: unknown personality %q", name)
	}
	r.mu.Lock()
	r.current = name
	r.mu.Unlock()
	return nil
}

// List returns all personalities sorted by name.
func (r *Registry) List() []Personality {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Personality, 0, len(names))
	for _, name := range names {
		out = append(out, catalog[name])
	}
	return out
}
