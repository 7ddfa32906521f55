// Package intent maps free-text voice commands to typed command intents.
//
// Classification is rule-first: explicit robot action phrases and code-task
// keywords are matched before anything else, and any unrecognized utterance
// falls back to Chat mode carrying the literal text. Classify is total and
// never fails, so the pipeline always has something to execute.
package intent

import (
	"strconv"
	"strings"

	"github.com/voxbotics/minibot/pkg/wake"
)

// Mode identifies which executor handles a command.
type Mode string

const (
	// ModeRobot routes to the robot motion executor.
	ModeRobot Mode = "robot"

	// ModeCode routes to the code execution executor.
	ModeCode Mode = "code"

	// ModeChat routes to the conversational chat executor.
	ModeChat Mode = "chat"
)

// Intent is a classified voice command. It lives for one execution cycle.
type Intent struct {
	// Mode selects the executor.
	Mode Mode

	// RawText is the original command text as transcribed.
	RawText string

	// Params carries mode-specific parameters:
	//   robot: "action" (canonical name), "count" (int)
	//   code:  "command" (task text)
	//   chat:  "message" (literal text)
	Params map[string]any
}

// Action returns the robot action parameter, empty if absent.
func (i Intent) Action() string {
	s, _ := i.Params["action"].(string)
	return s
}

// Count returns the repetition count parameter, defaulting to 1.
func (i Intent) Count() int {
	if n, ok := i.Params["count"].(int); ok && n > 0 {
		return n
	}
	return 1
}

// robotActions maps spoken phrases to canonical robot action names.
// Longer phrases are matched before shorter ones.
var robotActions = []struct {
	phrase string
	action string
}{
	{"wiggle your antennas", "wiggle_antennas"},
	{"wiggle antennas", "wiggle_antennas"},
	{"shake your head", "shake_head"},
	{"shake head", "shake_head"},
	{"look to the left", "look_left"},
	{"look to the right", "look_right"},
	{"turn left", "turn_left"},
	{"turn right", "turn_right"},
	{"look left", "look_left"},
	{"look right", "look_right"},
	{"look up", "look_up"},
	{"look down", "look_down"},
	{"look forward", "look_center"},
	{"look straight", "look_center"},
	{"wave hello", "wave"},
	{"wave", "wave"},
	{"nod", "nod"},
}

// codeKeywords indicate a task for the code execution backend.
// Grounded in what people actually ask a coding agent to do.
var codeKeywords = []string{
	"create a file", "write a script", "write a file", "write code",
	"run code", "run the code", "run a script", "run the script",
	"fix the bug", "fix a bug", "debug", "refactor",
	"git commit", "git push", "git pull",
	"install", "deploy", "write a function", "create a script",
	"make a file", "generate code", "run the tests", "run tests",
}

// Classifier turns raw command text into an Intent.
type Classifier struct{}

// NewClassifier creates a rule-based classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify maps raw text to an Intent. It always returns a valid Intent;
// unrecognized input becomes a Chat intent carrying the literal text.
func (c *Classifier) Classify(raw string) Intent {
	norm := wake.Normalize(raw)

	if action, count, ok := matchRobotAction(norm); ok {
		return Intent{
			Mode:    ModeRobot,
			RawText: raw,
			Params:  map[string]any{"action": action, "count": count},
		}
	}

	if matchesAny(norm, codeKeywords) {
		return Intent{
			Mode:    ModeCode,
			RawText: raw,
			Params:  map[string]any{"command": strings.TrimSpace(raw)},
		}
	}

	return Intent{
		Mode:    ModeChat,
		RawText: raw,
		Params:  map[string]any{"message": raw},
	}
}

// matchRobotAction finds a robot action phrase in normalized text and the
// repetition count that accompanies it ("twice", "three times", ...).
func matchRobotAction(norm string) (string, int, bool) {
	for _, ra := range robotActions {
		if !strings.Contains(" "+norm+" ", " "+ra.phrase+" ") {
			continue
		}
		return ra.action, parseCount(norm), true
	}
	return "", 0, false
}

// countWords maps spoken number words to counts.
var countWords = map[string]int{
	"once": 1, "twice": 2, "thrice": 3,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// parseCount extracts a repetition count from text like "nod twice" or
// "wave 3 times". Returns 1 when no count is present.
func parseCount(norm string) int {
	words := strings.Fields(norm)
	for i, w := range words {
		if n, ok := countWords[w]; ok {
			// "two times" and bare "twice" both count; skip "two" when it
			// is clearly not a repetition ("look at the two cups").
			if w == "once" || w == "twice" || w == "thrice" {
				return n
			}
			if i+1 < len(words) && words[i+1] == "times" {
				return n
			}
		}
		if n, err := strconv.Atoi(w); err == nil && n > 0 && n <= 20 {
			if i+1 < len(words) && words[i+1] == "times" {
				return n
			}
		}
	}
	return 1
}

// matchesAny reports whether norm contains any of the given phrases.
func matchesAny(norm string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}
