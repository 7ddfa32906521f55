package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(); err != ErrNoAPIKey {
		t.Errorf("NewClient() error = %v, want ErrNoAPIKey", err)
	}
}

func TestClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var payload struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", payload.Model)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"model": payload.Model,
			"choices": []map[string]any{{
				"message":       map[string]string{"content": "Hello! [nod]"},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer server.Close()

	client, err := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message.Content != "Hello! [nod]" {
		t.Errorf("content = %q", resp.Message.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("total tokens = %d, want 15", resp.Usage.TotalTokens)
	}
}

func TestClientChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer client.Close()

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsRateLimited() {
		t.Errorf("IsRateLimited() = false, want true")
	}
	if apiErr.Message != "rate limited" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestClientVision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["model"] != "gpt-4o" {
			t.Errorf("vision model = %v", payload["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o",
			"choices": []map[string]any{{
				"message":       map[string]string{"content": "a red cup on a desk"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer client.Close()

	resp, err := client.Vision(context.Background(), &VisionRequest{
		JPEG:   []byte{0xFF, 0xD8, 0xFF, 0xD9},
		Prompt: "what do you see?",
	})
	if err != nil {
		t.Fatalf("Vision() error = %v", err)
	}
	if resp.Content != "a red cup on a desk" {
		t.Errorf("content = %q", resp.Content)
	}
}
