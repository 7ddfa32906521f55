package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/voxbotics/minibot/internal/log"
	"github.com/voxbotics/minibot/pkg/actions"
	"github.com/voxbotics/minibot/pkg/inference"
	"github.com/voxbotics/minibot/pkg/intent"
	"github.com/voxbotics/minibot/pkg/persona"
	"github.com/voxbotics/minibot/pkg/robot"
)

// maxHistoryMessages bounds the in-memory conversation window.
const maxHistoryMessages = 40

// cameraTriggers are phrases that make the chat executor capture a frame
// and describe it before replying.
var cameraTriggers = []string{
	"take a picture", "take picture", "take a photo", "take photo",
	"what do you see", "look at this", "look at that", "can you see",
	"show me what you see", "describe what you see",
	"what's in front of you", "take a look", "look around", "see this",
	"snapshot",
}

// ChatExecutor handles conversational intents.
//
// It keeps an in-memory conversation history, prepends the active
// personality's system prompt per request, and turns bracket directives in
// the reply into robot actions via the shared dispatch gate.
type ChatExecutor struct {
	provider   inference.Provider
	personas   *persona.Registry
	dispatcher *robot.Dispatcher
	camera     robot.FrameCapturer
	logger     *slog.Logger

	mu      sync.Mutex
	history []inference.Message
}

// NewChatExecutor creates a chat executor. dispatcher and camera may be
// nil; directives and picture requests are then skipped.
func NewChatExecutor(provider inference.Provider, personas *persona.Registry, dispatcher *robot.Dispatcher, camera robot.FrameCapturer) *ChatExecutor {
	return &ChatExecutor{
		provider:   provider,
		personas:   personas,
		dispatcher: dispatcher,
		camera:     camera,
		logger:     log.Component("executor.chat"),
	}
}

// Execute sends the message to the model and dispatches any bracket
// directives embedded in the reply. The spoken reply has directives
// stripped out.
func (e *ChatExecutor) Execute(ctx context.Context, in intent.Intent) (Result, error) {
	message, _ := in.Params["message"].(string)
	if message == "" {
		message = in.RawText
	}

	var effects []SideEffect

	userContent := message
	if wantsPicture(message) && e.camera != nil {
		if desc, ok := e.describeScene(ctx, message); ok {
			userContent = fmt.Sprintf("%s\n\n[I took a picture and saw: %s]", message, desc)
			effects = append(effects, SideEffect{Kind: "frame_captured", Payload: desc})
		}
	}

	p := e.personas.Current()

	e.mu.Lock()
	e.history = append(e.history, inference.NewUserMessage(userContent))
	e.trimHistoryLocked()
	messages := make([]inference.Message, 0, len(e.history)+1)
	messages = append(messages, inference.NewSystemMessage(p.Prompt))
	messages = append(messages, e.history...)
	e.mu.Unlock()

	resp, err := e.provider.Chat(ctx, &inference.ChatRequest{
		Messages:    messages,
		MaxTokens:   500,
		Temperature: p.Temperature,
	})
	if err != nil {
		return Result{
			SpokenReply: "Oops, my circuits got a bit tangled.",
			SideEffects: effects,
		}, fmt.Errorf("chat: %w", err)
	}

	e.mu.Lock()
	e.history = append(e.history, resp.Message)
	e.mu.Unlock()

	clean, directives := actions.Extract(resp.Message.Content)

	if e.dispatcher != nil && len(directives) > 0 {
		issued, err := e.dispatcher.DispatchSequence(ctx, actions.Names(directives))
		for _, name := range issued {
			effects = append(effects, SideEffect{Kind: "robot_action", Payload: name})
		}
		if err != nil {
			e.logger.Warn("reply directives incomplete",
				"issued", len(issued),
				"requested", len(directives),
				"error", err,
			)
		}
	}

	if clean == "" {
		clean = "Done!"
	}

	return Result{
		OK:          true,
		SpokenReply: clean,
		SideEffects: effects,
	}, nil
}

// ClearHistory drops the conversation window.
func (e *ChatExecutor) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// History returns a copy of the conversation window.
func (e *ChatExecutor) History() []inference.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]inference.Message, len(e.history))
	copy(out, e.history)
	return out
}

// describeScene captures a frame and asks the vision model about it.
func (e *ChatExecutor) describeScene(ctx context.Context, message string) (string, bool) {
	jpeg, err := e.camera.CaptureFrame(ctx)
	if err != nil {
		e.logger.Warn("frame capture failed", "error", err)
		return "", false
	}

	resp, err := e.provider.Vision(ctx, &inference.VisionRequest{
		JPEG:   jpeg,
		Prompt: "Briefly describe what you see in this image.",
	})
	if err != nil {
		e.logger.Warn("vision failed", "error", err)
		return "", false
	}
	return resp.Content, true
}

// trimHistoryLocked keeps the window bounded. Caller holds e.mu.
func (e *ChatExecutor) trimHistoryLocked() {
	if len(e.history) > maxHistoryMessages {
		e.history = e.history[len(e.history)-maxHistoryMessages:]
	}
}

// wantsPicture reports whether the message asks for a camera capture.
func wantsPicture(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range cameraTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// Verify ChatExecutor implements Executor at compile time.
var _ Executor = (*ChatExecutor)(nil)
