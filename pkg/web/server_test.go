package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxbotics/minibot/pkg/audioio"
	"github.com/voxbotics/minibot/pkg/executor"
	"github.com/voxbotics/minibot/pkg/intent"
	"github.com/voxbotics/minibot/pkg/persona"
	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/speech"
	"github.com/voxbotics/minibot/pkg/stt"
	"github.com/voxbotics/minibot/pkg/tts"
	"github.com/voxbotics/minibot/pkg/voice"
)

func newTestServer(t *testing.T) (*Server, *robot.Mock) {
	t.Helper()

	ctrl := robot.NewMock()
	dispatcher := robot.NewDispatcher(ctrl, nil)

	router := executor.NewRouter()
	router.Register(intent.ModeRobot, executor.NewRobotExecutor(dispatcher))
	router.Register(intent.ModeChat, executor.NewMockExecutor("chat reply"))

	pipeline, err := voice.New(voice.Config{}, voice.Deps{
		Source:      audioio.NewMockSource(),
		Transcriber: func() (stt.Transcriber, error) { return stt.NewMock(), nil },
		Executor:    router,
		Speaker:     speech.NewSpeaker(tts.NewMock(), speech.NewMockSink()),
	})
	if err != nil {
		t.Fatalf("voice.New() error = %v", err)
	}
	t.Cleanup(func() { pipeline.Stop() })

	s := NewServer("0", Deps{
		Pipeline:   pipeline,
		Controller: ctrl,
		Dispatcher: dispatcher,
		Personas:   persona.NewRegistry(),
	})
	return s, ctrl
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}

func TestVoiceStartStopEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/voice/start", nil))
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("start status = %d, want 200", resp.StatusCode)
	}

	// Second start conflicts.
	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/voice/start", nil))
	if resp.StatusCode != 409 {
		t.Errorf("double start status = %d, want 409", resp.StatusCode)
	}

	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/voice/stop", nil))
	if resp.StatusCode != 200 {
		t.Errorf("stop status = %d, want 200", resp.StatusCode)
	}

	// Stopping again is still success.
	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/voice/stop", nil))
	if resp.StatusCode != 200 {
		t.Errorf("double stop status = %d, want 200", resp.StatusCode)
	}
}

func TestManualCommandEndpoint(t *testing.T) {
	s, ctrl := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/command",
		strings.NewReader(`{"text":"nod twice"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if got := ctrl.Actions(); len(got) != 2 {
		t.Errorf("robot actions = %v, want two nods", got)
	}
}

func TestManualCommandRequiresText(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/command", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := s.app.Test(req)
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRobotActionEndpoint(t *testing.T) {
	s, ctrl := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/robot/action/wave", nil))
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := ctrl.Actions(); len(got) != 1 || got[0] != "wave" {
		t.Errorf("actions = %v, want [wave]", got)
	}

	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/robot/action/backflip", nil))
	if resp.StatusCode != 404 {
		t.Errorf("unknown action status = %d, want 404", resp.StatusCode)
	}
}

func TestPersonalityEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	resp, _ := s.app.Test(httptest.NewRequest("GET", "/api/personalities", nil))
	body := decodeBody(t, resp.Body)
	if body["current"] != "friendly" {
		t.Errorf("current = %v, want friendly", body["current"])
	}

	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/personalities/sarcastic", nil))
	if resp.StatusCode != 200 {
		t.Errorf("set status = %d, want 200", resp.StatusCode)
	}

	resp, _ = s.app.Test(httptest.NewRequest("POST", "/api/personalities/nonexistent", nil))
	if resp.StatusCode != 404 {
		t.Errorf("unknown personality status = %d, want 404", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	body := decodeBody(t, resp.Body)
	if body["voice"] == nil {
		t.Error("status missing voice section")
	}
	if body["robot"] == nil {
		t.Error("status missing robot section")
	}
	if body["personality"] != "friendly" {
		t.Errorf("personality = %v, want friendly", body["personality"])
	}
}
