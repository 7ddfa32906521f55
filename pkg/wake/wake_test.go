package wake

import "testing"

var phrases = []string{"hey minibot", "minibot"}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"exact", "hey minibot", true},
		{"with punctuation", "Hey, MiniBot!", true},
		{"mid sentence", "so anyway hey minibot turn left", true},
		{"short phrase alone", "minibot", true},
		{"no phrase", "turn the lights off", false},
		{"embedded in word", "the minibottle is empty", false},
		{"extra whitespace", "  hey   minibot  ", true},
		{"double phrase single match", "minibot minibot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.text, phrases); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCmd  string
		wantOK   bool
	}{
		{"command after phrase", "hey minibot nod twice", "nod twice", true},
		{"punctuation between", "Hey minibot, nod twice.", "nod twice", true},
		{"phrase only", "hey minibot", "", true},
		{"longer phrase wins", "hey minibot wave", "wave", true},
		{"no phrase", "nod twice", "", false},
		{"skips embedded decoy", "the minibottle minibot nod", "nod", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Extract(tt.text, phrases)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if cmd != tt.wantCmd {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, cmd, tt.wantCmd)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hey, MiniBot!", "hey minibot"},
		{"  what's   up?  ", "what's up"},
		{"", ""},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
