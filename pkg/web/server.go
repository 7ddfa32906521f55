// Package web exposes the dashboard control surface over HTTP.
//
// The server is a thin wrapper: REST endpoints for pipeline control, manual
// commands, robot actions, and personalities, plus a websocket feed that
// relays every pipeline event to connected dashboards.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/voxbotics/minibot/pkg/executor"
	"github.com/voxbotics/minibot/pkg/hub"
	"github.com/voxbotics/minibot/pkg/persona"
	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/voice"
)

// Deps are the server's collaborators.
type Deps struct {
	Pipeline   *voice.Pipeline
	Controller robot.Controller
	Dispatcher *robot.Dispatcher
	Personas   *persona.Registry
	Chat       *executor.ChatExecutor
	Code       *executor.CodeExecutor
	Logger     *slog.Logger
}

// Server is the dashboard HTTP server.
type Server struct {
	app    *fiber.App
	port   string
	deps   Deps
	events *hub.Hub
	logger *slog.Logger

	observerID int
}

// NewServer creates the server and wires the pipeline event feed.
func NewServer(port string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		port:   port,
		deps:   deps,
		events: hub.New("events"),
		logger: deps.Logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Minibot Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)

	api.Post("/voice/start", s.handleVoiceStart)
	api.Post("/voice/stop", s.handleVoiceStop)
	api.Get("/voice/status", s.handleVoiceStatus)

	api.Post("/command", s.handleCommand)

	api.Post("/robot/action/:name", s.handleRobotAction)
	api.Get("/robot/status", s.handleRobotStatus)
	api.Get("/camera/frame", s.handleCameraFrame)

	api.Get("/personalities", s.handleListPersonalities)
	api.Post("/personalities/:name", s.handleSetPersonality)
	api.Post("/chat/clear", s.handleChatClear)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app

	// Relay every pipeline event to websocket observers.
	if deps.Pipeline != nil {
		s.observerID = deps.Pipeline.AddObserver(func(ev voice.Event) {
			if err := s.events.BroadcastJSON(ev); err != nil {
				s.logger.Warn("event broadcast failed", "error", err)
			}
		})
	}

	return s
}

// Start runs the event hub and listens on the configured port. Blocks.
func (s *Server) Start() error {
	go s.events.Run()
	s.logger.Info("dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server and detaches from the pipeline.
func (s *Server) Shutdown() error {
	if s.deps.Pipeline != nil {
		s.deps.Pipeline.RemoveObserver(s.observerID)
	}
	return s.app.Shutdown()
}

// handleEventsWS attaches a dashboard client to the event feed.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
