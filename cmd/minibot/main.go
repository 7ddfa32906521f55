// Minibot dashboard - voice-controlled robot bridge.
//
// Wires the robot daemon, streaming transcription, intent routing, command
// executors, and speech synthesis into the voice pipeline, and serves the
// dashboard control surface.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxbotics/minibot/internal/config"
	"github.com/voxbotics/minibot/internal/log"
	"github.com/voxbotics/minibot/pkg/audioio"
	"github.com/voxbotics/minibot/pkg/executor"
	"github.com/voxbotics/minibot/pkg/inference"
	"github.com/voxbotics/minibot/pkg/intent"
	"github.com/voxbotics/minibot/pkg/persona"
	"github.com/voxbotics/minibot/pkg/robot"
	"github.com/voxbotics/minibot/pkg/speech"
	"github.com/voxbotics/minibot/pkg/stt"
	"github.com/voxbotics/minibot/pkg/tts"
	"github.com/voxbotics/minibot/pkg/voice"
	"github.com/voxbotics/minibot/pkg/web"
)

func main() {
	robotIP := flag.String("robot-ip", "", "robot IP address (overrides ROBOT_IP env var)")
	port := flag.String("port", "", "dashboard port (overrides PORT env var)")
	autoStart := flag.Bool("auto-start", false, "start the voice pipeline on boot")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	level := *logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	log.Init(level)
	logger := log.L()

	ip := config.RobotIP("localhost")
	if *robotIP != "" {
		ip = *robotIP
	}
	webPort := config.WebPort()
	if *port != "" {
		webPort = *port
	}

	// Robot control plane. Fall back to simulation when the daemon is
	// unreachable so the dashboard stays usable in development.
	var controller robot.Controller = robot.NewHTTPController(config.RobotAPIURL(ip))
	if !controller.Connected() {
		logger.Warn("robot daemon unreachable, using simulation", "ip", ip)
		controller = robot.NewSim(logger)
	}
	dispatcher := robot.NewDispatcher(controller, logger)

	// Inference provider for chat and vision
	var provider inference.Provider
	if key := config.OpenAIAPIKey(); key != "" {
		client, err := inference.NewClient(
			inference.WithAPIKey(key),
			inference.WithLogger(logger),
		)
		if err != nil {
			logger.Error("inference client init failed", "error", err)
			os.Exit(1)
		}
		provider = client
	} else {
		logger.Warn("OPENAI_API_KEY not set, chat replies are echoes")
		provider = inference.NewMock()
	}
	defer provider.Close()

	// Speech synthesis chain with a mock fallback so the pipeline always
	// produces a reply even when the TTS provider is down.
	ttsProvider := buildTTS(logger)
	defer ttsProvider.Close()
	speaker := speech.NewSpeaker(ttsProvider, speech.NewRobotSink(controller))

	// Executors, one per command mode
	personas := persona.NewRegistry()
	chat := executor.NewChatExecutor(provider, personas, dispatcher, controller)
	code := executor.NewCodeExecutor()
	router := executor.NewRouter()
	router.Register(intent.ModeRobot, executor.NewRobotExecutor(dispatcher))
	router.Register(intent.ModeCode, code)
	router.Register(intent.ModeChat, chat)

	// Audio in
	source, err := audioio.NewRobotSource(controller, audioio.DefaultConfig(), logger)
	if err != nil {
		logger.Error("audio source init failed", "error", err)
		os.Exit(1)
	}
	defer source.Close()

	deepgramKey := config.DeepgramAPIKey()
	transcriber := func() (stt.Transcriber, error) {
		cfg := stt.DefaultConfig()
		cfg.APIKey = deepgramKey
		return stt.NewDeepgram(cfg, logger)
	}

	pipeline, err := voice.New(voice.Config{
		AutoStart:    *autoStart || config.BoolEnv("VOICE_AUTO_START", false),
		WakeCooldown: 2 * time.Second,
	}, voice.Deps{
		Source:      source,
		Transcriber: transcriber,
		Executor:    router,
		Speaker:     speaker,
		Feedback:    dispatcher,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("pipeline init failed", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(webPort, web.Deps{
		Pipeline:   pipeline,
		Controller: controller,
		Dispatcher: dispatcher,
		Personas:   personas,
		Chat:       chat,
		Code:       code,
		Logger:     logger,
	})

	if err := pipeline.StartIfConfigured(); err != nil {
		logger.Warn("voice auto-start failed", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	pipeline.Stop()
	if err := server.Shutdown(); err != nil {
		logger.Warn("server shutdown failed", "error", err)
	}
}

// buildTTS assembles the synthesis chain from the environment.
func buildTTS(logger *slog.Logger) tts.Provider {
	key := config.ElevenLabsAPIKey()
	voiceID := config.ElevenLabsVoiceID()
	if key == "" || voiceID == "" {
		logger.Warn("ELEVENLABS_API_KEY or ELEVENLABS_VOICE_ID not set, using silent TTS")
		return tts.NewMock()
	}

	eleven, err := tts.NewElevenLabs(
		tts.WithAPIKey(key),
		tts.WithVoice(voiceID),
		tts.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("elevenlabs init failed, using silent TTS", "error", err)
		return tts.NewMock()
	}

	chain, err := tts.NewChain(eleven, tts.NewMock())
	if err != nil {
		return eleven
	}
	return chain
}
