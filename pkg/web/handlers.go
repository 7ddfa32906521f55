package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/voice"
)

// handleStatus aggregates pipeline and robot state for the dashboard.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	status := fiber.Map{
		"voice": s.deps.Pipeline.Status(),
	}

	if s.deps.Controller != nil {
		rs, err := s.deps.Controller.Status(c.Context())
		if err != nil {
			status["robot"] = fiber.Map{"connected": false, "error": err.Error()}
		} else {
			status["robot"] = rs
		}
	}

	if s.deps.Personas != nil {
		status["personality"] = s.deps.Personas.Current().Name
	}

	if s.deps.Code != nil {
		status["code"] = fiber.Map{
			"available": s.deps.Code.Available(),
			"running":   s.deps.Code.Running(),
		}
	}

	return c.JSON(status)
}

// handleVoiceStart starts the voice pipeline.
func (s *Server) handleVoiceStart(c *fiber.Ctx) error {
	if err := s.deps.Pipeline.Start(); err != nil {
		if errors.Is(err, voice.ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": s.deps.Pipeline.Status()})
}

// handleVoiceStop stops the voice pipeline. Stopping an already stopped
// pipeline is reported as success.
func (s *Server) handleVoiceStop(c *fiber.Ctx) error {
	if err := s.deps.Pipeline.Stop(); err != nil && !errors.Is(err, voice.ErrNotRunning) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": s.deps.Pipeline.Status()})
}

// handleVoiceStatus returns the pipeline snapshot.
func (s *Server) handleVoiceStatus(c *fiber.Ctx) error {
	return c.JSON(s.deps.Pipeline.Status())
}

// CommandRequest is the manual command body.
type CommandRequest struct {
	Text string `json:"text"`
}

// handleCommand executes a one-off command through the same dispatch gate
// as the voice loop.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text required"})
	}

	result, err := s.deps.Pipeline.ExecuteManual(c.Context(), req.Text)
	resp := fiber.Map{
		"success":      result.OK,
		"reply":        result.SpokenReply,
		"side_effects": result.SideEffects,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(resp)
}

// RobotActionRequest is the manual robot action body.
type RobotActionRequest struct {
	Count  int            `json:"count"`
	Params map[string]any `json:"params"`
}

// handleRobotAction issues a named action through the shared dispatch gate.
func (s *Server) handleRobotAction(c *fiber.Ctx) error {
	name := c.Params("name")
	if !robot.IsKnownAction(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown action"})
	}

	var req RobotActionRequest
	if err := c.BodyParser(&req); err != nil {
		req = RobotActionRequest{}
	}
	if req.Count < 1 {
		req.Count = 1
	}

	issued, err := s.deps.Dispatcher.Dispatch(c.Context(), name, req.Count, req.Params)
	resp := fiber.Map{"issued": issued}
	if err != nil {
		resp["error"] = err.Error()
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

// handleRobotStatus queries the robot daemon.
func (s *Server) handleRobotStatus(c *fiber.Ctx) error {
	rs, err := s.deps.Controller.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"connected": false,
			"error":     err.Error(),
		})
	}
	return c.JSON(rs)
}

// handleCameraFrame returns one JPEG frame from the robot camera.
func (s *Server) handleCameraFrame(c *fiber.Ctx) error {
	frame, err := s.deps.Controller.CaptureFrame(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "image/jpeg")
	return c.Send(frame)
}

// handleListPersonalities lists the personality catalog.
func (s *Server) handleListPersonalities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"current":       s.deps.Personas.Current().Name,
		"personalities": s.deps.Personas.List(),
	})
}

// handleSetPersonality activates a personality for subsequent chats.
func (s *Server) handleSetPersonality(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.deps.Personas.Set(name); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"current": name})
}

// handleChatClear drops the conversation history.
func (s *Server) handleChatClear(c *fiber.Ctx) error {
	if s.deps.Chat != nil {
		s.deps.Chat.ClearHistory()
	}
	return c.JSON(fiber.Map{"cleared": true})
}
