package intent

import "testing"

func TestClassifyRobot(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantAction string
		wantCount  int
	}{
		{"nod twice", "nod twice", "nod", 2},
		{"plain nod", "nod", "nod", 1},
		{"nod with punctuation", "Nod, please!", "nod", 1},
		{"wiggle antennas", "wiggle your antennas", "wiggle_antennas", 1},
		{"shake head three times", "shake your head three times", "shake_head", 3},
		{"numeric count", "wave 3 times", "wave", 3},
		{"look left", "look to the left", "look_left", 1},
		{"turn right", "turn right", "turn_right", 1},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Mode != ModeRobot {
				t.Fatalf("Classify(%q).Mode = %s, want robot", tt.text, got.Mode)
			}
			if got.Action() != tt.wantAction {
				t.Errorf("action = %q, want %q", got.Action(), tt.wantAction)
			}
			if got.Count() != tt.wantCount {
				t.Errorf("count = %d, want %d", got.Count(), tt.wantCount)
			}
		})
	}
}

func TestClassifyCode(t *testing.T) {
	tests := []string{
		"create a file called notes dot text",
		"fix the bug in the server",
		"run the tests",
		"git commit my changes",
	}

	c := NewClassifier()
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got := c.Classify(text)
			if got.Mode != ModeCode {
				t.Fatalf("Classify(%q).Mode = %s, want code", text, got.Mode)
			}
			if cmd, _ := got.Params["command"].(string); cmd == "" {
				t.Error("code intent missing command parameter")
			}
		})
	}
}

func TestClassifyChatFallback(t *testing.T) {
	tests := []string{
		"what's the weather like",
		"tell me a joke",
		"",
		"üñîçødé ☃ ❤ random",
	}

	c := NewClassifier()
	for _, text := range tests {
		got := c.Classify(text)
		if got.Mode != ModeChat {
			t.Errorf("Classify(%q).Mode = %s, want chat", text, got.Mode)
		}
		if msg, ok := got.Params["message"].(string); !ok || msg != text {
			t.Errorf("Classify(%q) message = %v, want literal text", text, got.Params["message"])
		}
	}
}

func TestClassifyNeverNil(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("nod")
	if got.Params == nil {
		t.Fatal("Classify returned nil params")
	}
	if got.RawText != "nod" {
		t.Errorf("RawText = %q, want %q", got.RawText, "nod")
	}
}
