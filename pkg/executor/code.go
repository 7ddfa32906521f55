package executor

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/voxbotics/minibot/internal/log"
	"github.com/voxbotics/minibot/pkg/intent"
)

const (
	defaultCodeBinary = "claude"

	// speakableMaxLen bounds how much of a code reply gets spoken.
	speakableMaxLen = 200
)

// CodeExecutor runs code tasks through a coding agent CLI subprocess.
//
// The subprocess gets the task as a prompt and streams plain-text output.
// Cancellation sends SIGTERM first and escalates to SIGKILL if the process
// lingers. Only one code task runs at a time.
type CodeExecutor struct {
	binary  string
	argsFor func(command string) []string
	logger  *slog.Logger

	// OnOutput, when set, receives each output line as it is produced.
	OnOutput func(line string)

	mu      sync.Mutex
	running bool
}

// NewCodeExecutor creates a code task executor using the default CLI.
func NewCodeExecutor() *CodeExecutor {
	return &CodeExecutor{
		binary:  defaultCodeBinary,
		argsFor: codeCLIArgs,
		logger:  log.Component("executor.code"),
	}
}

// codeCLIArgs builds the non-interactive CLI invocation for a task.
func codeCLIArgs(command string) []string {
	return []string{
		"-p", command,
		"--output-format", "text",
		"--dangerously-skip-permissions",
	}
}

// Available reports whether the CLI binary is on PATH.
func (e *CodeExecutor) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Running reports whether a code task is in flight.
func (e *CodeExecutor) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Execute runs the intent's task via the CLI and returns a speakable
// summary of the output. Output lines already produced are reported as
// side effects even when the task fails or is cancelled.
func (e *CodeExecutor) Execute(ctx context.Context, in intent.Intent) (Result, error) {
	command, _ := in.Params["command"].(string)
	if command == "" {
		command = in.RawText
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return Result{
			SpokenReply: "I'm still working on the last task.",
		}, fmt.Errorf("executor: code task already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if !e.Available() {
		return Result{
			SpokenReply: "The coding agent isn't installed here.",
		}, fmt.Errorf("executor: %s binary not found", e.binary)
	}

	cmd := exec.CommandContext(ctx, e.binary, e.argsFor(command)...)
	// SIGTERM on cancel, SIGKILL if still alive after the delay.
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = 500 * time.Millisecond

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{SpokenReply: "Something went wrong starting the task."},
			fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	start := time.Now()
	e.logger.Info("code task starting", "command", truncate(command, 80))

	if err := cmd.Start(); err != nil {
		return Result{SpokenReply: "Something went wrong starting the task."},
			fmt.Errorf("start %s: %w", e.binary, err)
	}

	var lines []string
	var effects []SideEffect
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
		effects = append(effects, SideEffect{Kind: "code_output", Payload: line})
		if e.OnOutput != nil {
			e.OnOutput(line)
		}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		e.logger.Info("code task cancelled", "elapsed_ms", elapsed.Milliseconds())
		return Result{
			SpokenReply: "Okay, I stopped the task.",
			SideEffects: effects,
		}, ctx.Err()
	}

	output := strings.Join(lines, "\n")
	if waitErr != nil {
		e.logger.Warn("code task failed",
			"error", waitErr,
			"lines", len(lines),
			"elapsed_ms", elapsed.Milliseconds(),
		)
		return Result{
			SpokenReply: "The task failed, sorry.",
			SideEffects: effects,
		}, fmt.Errorf("code task: %w", waitErr)
	}

	e.logger.Info("code task complete",
		"lines", len(lines),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return Result{
		OK:          true,
		SpokenReply: ExtractSpeakable(output),
		SideEffects: effects,
	}, nil
}

// ExtractSpeakable reduces raw CLI output to a short spoken summary.
// Code blocks, file paths, and shell lines are skipped; the first few
// conversational lines are joined and truncated.
func ExtractSpeakable(output string) string {
	if strings.TrimSpace(output) == "" {
		return "Done."
	}

	var kept []string
	inCodeBlock := false
	for _, line := range strings.Split(output, "\n") {
		s := strings.TrimSpace(line)

		if strings.HasPrefix(s, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") {
			continue
		}
		if strings.Contains(strings.ToLower(s), "created") && strings.Contains(s, "/") {
			continue
		}
		if strings.HasPrefix(s, "$") || strings.HasPrefix(s, ">") {
			continue
		}

		if len(s) > 5 {
			kept = append(kept, s)
		}
		if len(kept) == 3 {
			break
		}
	}

	if len(kept) == 0 {
		return "Done."
	}
	return truncate(strings.Join(kept, " "), speakableMaxLen)
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Verify CodeExecutor implements Executor at compile time.
var _ Executor = (*CodeExecutor)(nil)
