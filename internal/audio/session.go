package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionState tracks the lifecycle of one capture session.
type SessionState int32

const (
	SessionIdle SessionState = iota
	SessionRecording
	SessionStopped
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRecording:
		return "recording"
	case SessionStopped:
		return "stopped"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Completion is delivered exactly once when a session finishes, whether by
// explicit stop, max-duration elapse or device failure.
type Completion struct {
	SessionID string
	// Clip holds whatever was captured up to the end of the session. On
	// device failure the partial take is still here for inspection; the
	// caller decides it is not fit for recognition.
	Clip Clip
	// Err is set when the device failed mid-capture.
	Err error
	// MaxDuration is set when the session stopped itself at the configured
	// duration limit. It is a notification, not an error.
	MaxDuration bool
}

// SessionConfig configures one capture session.
type SessionConfig struct {
	Source        Source
	DeviceID      string
	Format        Format
	MaxDuration   time.Duration
	LevelInterval time.Duration
	// OnLevel receives normalized 0.0-1.0 volume updates at the configured
	// cadence. Called from the capture goroutine; may be nil.
	OnLevel func(float64)
	Logger  zerolog.Logger
}

// Session is one recording attempt. It owns a fresh Buffer and, once started,
// the input device stream, and it never outlives either: a new recording
// always means a new session with a new buffer.
type Session struct {
	id     string
	cfg    SessionConfig
	buf    *Buffer
	log    zerolog.Logger
	state  atomic.Int32
	stream Stream

	stopOnce sync.Once
	stopping atomic.Bool
	done     chan Completion
}

// NewSession creates a session with its own empty buffer.
func NewSession(cfg SessionConfig) *Session {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 60 * time.Second
	}
	if cfg.LevelInterval <= 0 {
		cfg.LevelInterval = 100 * time.Millisecond
	}
	id := uuid.NewString()
	return &Session{
		id:   id,
		cfg:  cfg,
		buf:  NewBuffer(cfg.Format),
		log:  cfg.Logger.With().Str("session", id).Logger(),
		done: make(chan Completion, 1),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Buffer exposes the session's buffer for live metering reads. Snapshots are
// refused until the session has finished.
func (s *Session) Buffer() *Buffer {
	return s.buf
}

// Done delivers the single completion notice for this session.
func (s *Session) Done() <-chan Completion {
	return s.done
}

// Start acquires the input device and begins pumping frames into the buffer.
// It fails with ErrDeviceNotFound or ErrDeviceBusy without transitioning to
// Recording.
func (s *Session) Start() error {
	if !s.state.CompareAndSwap(int32(SessionIdle), int32(SessionRecording)) {
		return fmt.Errorf("audio: session already started (state %s)", s.State())
	}

	stream, err := s.cfg.Source.Open(s.cfg.DeviceID, s.cfg.Format)
	if err != nil {
		s.state.Store(int32(SessionFailed))
		return err
	}
	s.stream = stream

	s.log.Info().
		Str("device", s.cfg.DeviceID).
		Dur("max_duration", s.cfg.MaxDuration).
		Msg("Recording started")

	go s.pump()
	return nil
}

// Stop ends the recording. It is idempotent: stopping a session that is not
// recording is logged and ignored.
func (s *Session) Stop() {
	if s.State() != SessionRecording {
		s.log.Debug().Str("state", s.State().String()).Msg("Stop ignored, session not recording")
		return
	}
	s.stopOnce.Do(func() {
		s.stopping.Store(true)
		// Unblocks the pump's pending Read.
		s.stream.Close()
	})
}

func (s *Session) pump() {
	deadline := time.Now().Add(s.cfg.MaxDuration)
	lastLevel := time.Now()

	for {
		chunk, err := s.stream.Read()
		if err != nil {
			if s.stopping.Load() {
				s.finish(Completion{})
			} else {
				s.fail(fmt.Errorf("device failure: %w", err))
			}
			return
		}

		if err := s.buf.Append(chunk); err != nil {
			s.fail(fmt.Errorf("buffer append: %w", err))
			return
		}

		if s.cfg.OnLevel != nil && time.Since(lastLevel) >= s.cfg.LevelInterval {
			s.cfg.OnLevel(Level(chunk, s.cfg.Format))
			lastLevel = time.Now()
		}

		if time.Now().After(deadline) {
			s.log.Info().Msg("Max recording duration reached, stopping")
			s.stopping.Store(true)
			s.finish(Completion{MaxDuration: true})
			return
		}
	}
}

// finish releases the device, seals the buffer and signals completion. The
// device is always released before the completion notice goes out, so the
// next session can acquire it immediately.
func (s *Session) finish(c Completion) {
	s.stream.Close()
	s.buf.seal()
	s.state.Store(int32(SessionStopped))

	c.SessionID = s.id
	if clip, err := s.buf.Snapshot(); err == nil {
		c.Clip = clip
	}
	s.log.Info().
		Int("bytes", len(c.Clip.PCM)).
		Dur("duration", c.Clip.Duration()).
		Bool("max_duration", c.MaxDuration).
		Msg("Recording stopped")
	s.done <- c
}

func (s *Session) fail(err error) {
	s.stream.Close()
	s.buf.seal()
	s.state.Store(int32(SessionFailed))

	c := Completion{SessionID: s.id, Err: err}
	// The partial take stays readable; whether it is usable is the caller's call.
	if clip, snapErr := s.buf.Snapshot(); snapErr == nil {
		c.Clip = clip
	}
	s.log.Error().Err(err).Int("bytes", len(c.Clip.PCM)).Msg("Recording failed")
	s.done <- c
}
