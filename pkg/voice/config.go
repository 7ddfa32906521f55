package voice

import (
	"time"

	"github.com/voxbotics/minibot/pkg/wake"
)

// Config holds session parameters for the voice pipeline. It is loaded
// once at session start and not mutated afterwards.
type Config struct {
	// WakePhrases trigger command processing when a final transcript
	// contains one of them.
	WakePhrases []string

	// WakeCooldown ignores wake retriggers for this long after a command
	// starts. Zero disables the cooldown.
	WakeCooldown time.Duration

	// AutoStart starts the pipeline as soon as the process boots.
	AutoStart bool

	// Apology is spoken when a command fails without its own reply.
	Apology string
}

// DefaultConfig returns the config used when none is supplied.
func DefaultConfig() Config {
	return Config{
		WakePhrases:  wake.DefaultPhrases,
		WakeCooldown: 2 * time.Second,
		Apology:      "Sorry, something went wrong.",
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.WakePhrases) == 0 {
		c.WakePhrases = def.WakePhrases
	}
	if c.Apology == "" {
		c.Apology = def.Apology
	}
	return c
}
