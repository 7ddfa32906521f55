package executor

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/voxbotics/minibot/pkg/intent"
)

func TestExtractSpeakable(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "empty output",
			output: "",
			want:   "Done.",
		},
		{
			name:   "plain reply",
			output: "I created the hello script for you.",
			want:   "I created the hello script for you.",
		},
		{
			name: "skips code blocks",
			output: "Here is the script.\n```python\nprint('hi')\n```\n" +
				"Run it whenever you like.",
			want: "Here is the script. Run it whenever you like.",
		},
		{
			name:   "skips file paths",
			output: "/home/user/project/hello.py\nAll set, the file is ready.",
			want:   "All set, the file is ready.",
		},
		{
			name:   "skips shell lines",
			output: "$ python hello.py\n> hello\nThe script prints a greeting.",
			want:   "The script prints a greeting.",
		},
		{
			name:   "only technical output",
			output: "/tmp/a.txt\n```\nx\n```",
			want:   "Done.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSpeakable(tt.output); got != tt.want {
				t.Errorf("ExtractSpeakable() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSpeakableTruncates(t *testing.T) {
	long := strings.Repeat("This sentence keeps going on and on. ", 20)
	got := ExtractSpeakable(long)
	if len(got) > speakableMaxLen {
		t.Errorf("len = %d, want <= %d", len(got), speakableMaxLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated reply %q missing ellipsis", got)
	}
}

func TestTruncateMultibyte(t *testing.T) {
	long := strings.Repeat("héllo wörld ", 30)
	got := truncate(long, speakableMaxLen)

	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > speakableMaxLen {
		t.Errorf("rune count = %d, want <= %d", n, speakableMaxLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text %q missing ellipsis", got)
	}

	if short := truncate("héllo", speakableMaxLen); short != "héllo" {
		t.Errorf("truncate(short) = %q, want unchanged", short)
	}
}

func TestCodeExecutorRunsBinary(t *testing.T) {
	ex := NewCodeExecutor()
	ex.binary = "echo"
	ex.argsFor = func(command string) []string {
		return []string{"I finished the task:", command}
	}

	var streamed []string
	ex.OnOutput = func(line string) { streamed = append(streamed, line) }

	result, err := ex.Execute(context.Background(), intent.Intent{
		Mode:    intent.ModeCode,
		RawText: "write a file",
		Params:  map[string]any{"command": "write a file"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.OK {
		t.Error("OK = false, want true")
	}
	if !strings.Contains(result.SpokenReply, "write a file") {
		t.Errorf("reply = %q, want echoed command", result.SpokenReply)
	}
	if len(streamed) != 1 {
		t.Errorf("streamed lines = %d, want 1", len(streamed))
	}
	if len(result.SideEffects) != 1 || result.SideEffects[0].Kind != "code_output" {
		t.Errorf("side effects = %v, want one code_output", result.SideEffects)
	}
}

func TestCodeExecutorMissingBinary(t *testing.T) {
	ex := NewCodeExecutor()
	ex.binary = "definitely-not-a-real-binary-name"

	_, err := ex.Execute(context.Background(), intent.Intent{
		Mode:    intent.ModeCode,
		RawText: "do something",
	})
	if err == nil {
		t.Fatal("Execute() error = nil, want missing binary error")
	}
	if ex.Running() {
		t.Error("Running() = true after failed execute")
	}
}

func TestCodeExecutorCancellation(t *testing.T) {
	ex := NewCodeExecutor()
	ex.binary = "sleep"
	ex.argsFor = func(command string) []string { return []string{"10"} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := ex.Execute(ctx, intent.Intent{Mode: intent.ModeCode, RawText: "wait"})
		done <- err
	}()

	// Let the subprocess start, then cancel.
	deadline := time.Now().Add(2 * time.Second)
	for !ex.Running() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err == nil {
		t.Fatal("Execute() error = nil, want cancellation")
	}
	if ex.Running() {
		t.Error("Running() = true after cancellation")
	}
}
