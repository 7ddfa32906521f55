package audioio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/voxbotics/minibot/pkg/robot"
)

// RobotSource captures audio from the robot's microphone by polling the
// daemon at the chunk rate. The daemon buffers mic audio between polls, so
// a slow tick loses nothing until its buffer wraps.
type RobotSource struct {
	recorder robot.AudioRecorder
	config   Config
	logger   *slog.Logger

	mu      sync.Mutex
	out     chan Chunk
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	closed  bool
}

// NewRobotSource creates a Source backed by the robot microphone.
func NewRobotSource(recorder robot.AudioRecorder, cfg Config, logger *slog.Logger) (*RobotSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotSource{
		recorder: recorder,
		config:   cfg,
		logger:   logger.With("component", "audioio.robot"),
		out:      make(chan Chunk, 32),
	}, nil
}

// Start begins recording on the robot and starts the poll loop.
func (s *RobotSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}
	if s.running {
		return nil
	}
	if s.out == nil {
		s.out = make(chan Chunk, 32)
	}

	if err := s.recorder.StartRecording(ctx); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.pollLoop(loopCtx)
	return nil
}

// pollLoop reads audio from the robot at the chunk rate until cancelled.
func (s *RobotSource) pollLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.config.ChunkDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pcm, err := s.recorder.ReadAudio(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("audio read failed", "error", err)
				continue
			}
			if len(pcm) == 0 {
				continue
			}

			select {
			case s.out <- Chunk{PCM: pcm, Timestamp: time.Now()}:
			default:
				// Consumer is behind; drop the oldest buffered chunk.
				select {
				case <-s.out:
				default:
				}
				s.out <- Chunk{PCM: pcm, Timestamp: time.Now()}
			}
		}
	}
}

// Stop halts capture and closes the stream channel.
func (s *RobotSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	s.cancel()
	<-s.done

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.recorder.StopRecording(ctx); err != nil {
		s.logger.Warn("stop recording failed", "error", err)
	}

	close(s.out)
	s.out = nil
	return nil
}

// Stream returns the chunk channel.
func (s *RobotSource) Stream() <-chan Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

// Name returns "robot".
func (s *RobotSource) Name() string {
	return "robot"
}

// Close stops capture and releases resources.
func (s *RobotSource) Close() error {
	err := s.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// Ensure RobotSource implements Source.
var _ Source = (*RobotSource)(nil)
