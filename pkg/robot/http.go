package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voxbotics/minibot/internal/httpc"
)

// httpClient is a shared HTTP client with a short timeout so a hung daemon
// never blocks the control loop.
var httpClient = httpc.NewClient(5 * time.Second)

// HTTPController implements Controller against the robot daemon's HTTP API.
// This is the primary controller used by the dashboard.
type HTTPController struct {
	BaseURL string
}

// NewHTTPController creates an HTTP-based robot controller for the daemon
// at baseURL.
func NewHTTPController(baseURL string) *HTTPController {
	return &HTTPController{BaseURL: baseURL}
}

// IssueAction sends a named action to the daemon.
func (r *HTTPController) IssueAction(ctx context.Context, name string, params map[string]any) error {
	payload := map[string]any{
		"action": name,
		"params": params,
	}
	return r.postJSON(ctx, "/api/move/action", payload, nil)
}

// CaptureFrame fetches a single JPEG frame from the robot camera.
func (r *HTTPController) CaptureFrame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/api/camera/frame", nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frame request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("frame request returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Status queries the daemon status endpoint.
func (r *HTTPController) Status(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/api/daemon/status", nil)
	if err != nil {
		return Status{}, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Status{Connected: false}, fmt.Errorf("daemon status request failed: %w", err)
	}
	defer resp.Body.Close()

	var status struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, fmt.Errorf("failed to decode daemon status: %w", err)
	}

	return Status{Connected: true, State: status.State, Mode: "hardware"}, nil
}

// StartRecording begins microphone capture on the robot.
func (r *HTTPController) StartRecording(ctx context.Context) error {
	return r.postJSON(ctx, "/api/audio/record/start", map[string]any{}, nil)
}

// StopRecording halts microphone capture.
func (r *HTTPController) StopRecording(ctx context.Context) error {
	return r.postJSON(ctx, "/api/audio/record/stop", map[string]any{}, nil)
}

// ReadAudio fetches the next buffered chunk of PCM16 audio from the robot.
func (r *HTTPController) ReadAudio(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/api/audio/frame", nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio read failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio read returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// PlayAudio sends PCM audio to the robot speaker and waits for delivery.
func (r *HTTPController) PlayAudio(ctx context.Context, pcm []byte, sampleRate int) error {
	url := fmt.Sprintf("%s/api/audio/play?sample_rate=%d", r.BaseURL, sampleRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(pcm))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	// Playback can take longer than control calls; give it its own client.
	client := httpc.NewClient(60 * time.Second)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("audio play failed: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio play returned %d", resp.StatusCode)
	}
	return nil
}

// Connected reports whether the daemon answers status queries.
func (r *HTTPController) Connected() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := r.Status(ctx)
	return err == nil
}

// postJSON sends a JSON payload to the daemon and optionally decodes the reply.
func (r *HTTPController) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request to %s returned %d", path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Ensure HTTPController implements Controller.
var _ Controller = (*HTTPController)(nil)
