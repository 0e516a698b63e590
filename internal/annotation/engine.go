// Package annotation orchestrates the voice annotation lifecycle: capture,
// snapshot hand-off, asynchronous recognition and final submission.
package annotation

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
	"github.com/void2byte/voice2text/internal/recognizer"
)

// State is the annotation lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
	StateRecognizing
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateRecognizing:
		return "recognizing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Config wires an Engine.
type Config struct {
	Source  audio.Source
	Adapter recognizer.Adapter // may be nil until SetProvider succeeds
	// NewAdapter builds adapters for SetProvider. Defaults to the recognizer
	// factory.
	NewAdapter func(config.RecognizerConfig) (recognizer.Adapter, error)
	Recognizer config.RecognizerConfig
	Audio      config.AudioConfig
	// DumpDir, when set, receives a WAV copy of every finished take.
	DumpDir string
	// CancelGrace bounds how long a cancel waits for a running recognition.
	CancelGrace time.Duration
	Logger      zerolog.Logger
}

// Engine is the annotation state machine. All transitions run on one event
// loop goroutine; the public methods only post commands to it, so no two
// transitions ever race. Each recording gets a brand new capture session with
// a brand new buffer.
type Engine struct {
	log         zerolog.Logger
	source      audio.Source
	newAdapter  func(config.RecognizerConfig) (recognizer.Adapter, error)
	runner      *recognizer.Runner
	dumpDir     string
	cancelGrace time.Duration

	cmds    chan func()
	levels  chan float64
	results chan recognizer.Result
	quit    chan struct{}
	stopped chan struct{}

	// Owned by the event loop.
	adapter     recognizer.Adapter
	rcfg        config.RecognizerConfig
	acfg        config.AudioConfig
	session     *audio.Session
	sessionDone <-chan audio.Completion
	lastClip    audio.Clip
	gen         uint64
	listeners   []Listener

	// Guarded by mu for the read accessors; written only by the loop.
	mu     sync.Mutex
	state  State
	record Record
}

// New creates the engine and starts its event loop.
func New(cfg Config) *Engine {
	if cfg.CancelGrace <= 0 {
		cfg.CancelGrace = 2 * time.Second
	}
	log := cfg.Logger.With().Str("component", "annotation").Logger()
	e := &Engine{
		log:         log,
		source:      cfg.Source,
		newAdapter:  cfg.NewAdapter,
		runner:      recognizer.NewRunner(log),
		dumpDir:     cfg.DumpDir,
		cancelGrace: cfg.CancelGrace,
		cmds:        make(chan func(), 16),
		levels:      make(chan float64, 16),
		results:     make(chan recognizer.Result, 1),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
		adapter:     cfg.Adapter,
		rcfg:        cfg.Recognizer,
		acfg:        cfg.Audio,
		state:       StateIdle,
	}
	if e.newAdapter == nil {
		e.newAdapter = func(rc config.RecognizerConfig) (recognizer.Adapter, error) {
			return recognizer.New(rc, log)
		}
	}
	go e.run()
	return e
}

// Close tears the engine down: any active session is stopped, an outstanding
// recognition is cancelled with the configured grace, nothing is emitted.
func (e *Engine) Close() {
	select {
	case <-e.quit:
	default:
		close(e.quit)
	}
	<-e.stopped
}

// Subscribe registers a listener for engine events.
func (e *Engine) Subscribe(l Listener) {
	e.post(func() { e.listeners = append(e.listeners, l) })
}

// StartRecording begins a new annotation attempt. Calling it while already
// recording is swallowed, not an error.
func (e *Engine) StartRecording() { e.post(e.handleStart) }

// StopRecording ends the capture and, when auto-recognition is enabled,
// hands the snapshot to the recognizer.
func (e *Engine) StopRecording() { e.post(e.handleStop) }

// Recognize manually (re-)runs recognition on the last finished take. Used
// when auto-recognition is off, and as the one-shot retry after an error.
func (e *Engine) Recognize() { e.post(e.handleRecognize) }

// SetText applies a user edit to the recognized text.
func (e *Engine) SetText(text string) {
	e.post(func() { e.handleSetText(text) })
}

// Finalize emits the annotation record exactly once and returns to Idle.
func (e *Engine) Finalize() { e.post(e.handleFinalize) }

// Cancel aborts the current attempt from any state, discarding the session
// and any outstanding recognition without emitting a record.
func (e *Engine) Cancel() { e.post(e.handleCancel) }

// SetProvider replaces the recognizer adapter. Invalid configuration is
// reported immediately through OnError and the previous adapter stays active.
func (e *Engine) SetProvider(rc config.RecognizerConfig) {
	e.post(func() { e.handleSetProvider(rc) })
}

// Devices lists the available input devices.
func (e *Engine) Devices() ([]audio.Device, error) {
	return e.source.Devices()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Record returns a copy of the current annotation record.
func (e *Engine) Record() Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record
}

// Text returns the current annotation text.
func (e *Engine) Text() string {
	return e.Record().Text
}

func (e *Engine) post(fn func()) {
	select {
	case e.cmds <- fn:
	case <-e.quit:
	}
}

func (e *Engine) run() {
	defer close(e.stopped)
	for {
		select {
		case <-e.quit:
			e.shutdown()
			return
		case fn := <-e.cmds:
			fn()
		case level := <-e.levels:
			for _, l := range e.listeners {
				l.OnLevel(level)
			}
		case c := <-e.sessionDone:
			e.handleCompletion(c)
		case res := <-e.results:
			e.handleResult(res)
		}
	}
}

func (e *Engine) shutdown() {
	if e.session != nil {
		e.session.Stop()
		e.session = nil
		e.sessionDone = nil
	}
	e.runner.Close()
	if e.adapter != nil {
		e.adapter.Close()
	}
}

// --- transitions, all running on the loop goroutine ---

func (e *Engine) handleStart() {
	switch e.State() {
	case StateRecording, StateStopping, StateRecognizing:
		e.log.Debug().Str("state", e.State().String()).Msg("Start ignored, attempt already in progress")
		return
	}

	// Fresh attempt: new record, new session, new buffer. Results belonging
	// to any previous attempt become stale here.
	e.gen++
	e.setRecord(Record{ID: uuid.NewString()})
	e.lastClip = audio.Clip{}
	e.emitText("")

	session := audio.NewSession(audio.SessionConfig{
		Source:        e.source,
		DeviceID:      e.acfg.DeviceID,
		Format:        audio.Format{SampleRate: e.acfg.SampleRate, Channels: e.acfg.Channels, BytesPerSample: 2},
		MaxDuration:   time.Duration(e.acfg.MaxDurationSec) * time.Second,
		LevelInterval: time.Duration(e.acfg.LevelIntervalMS) * time.Millisecond,
		OnLevel: func(v float64) {
			select {
			case e.levels <- v:
			default:
			}
		},
		Logger: e.log,
	})
	if err := session.Start(); err != nil {
		e.toError(err.Error())
		return
	}

	e.session = session
	e.sessionDone = session.Done()
	e.setState(StateRecording)
	e.updateRecord(func(r *Record) { r.Recording = true })
	e.emitRecording(true)
}

func (e *Engine) handleStop() {
	if e.State() != StateRecording {
		e.log.Debug().Str("state", e.State().String()).Msg("Stop ignored, not recording")
		return
	}
	e.setState(StateStopping)
	e.session.Stop()
}

func (e *Engine) handleCompletion(c audio.Completion) {
	// The session is discarded unconditionally, whatever the outcome; its
	// device handle is already released.
	e.session = nil
	e.sessionDone = nil
	e.updateRecord(func(r *Record) { r.Recording = false })
	e.emitRecording(false)

	if c.MaxDuration {
		e.log.Info().Str("session", c.SessionID).Msg("Recording hit the maximum duration")
	}

	// Keep the take, even a partial one after a failure, for inspection.
	e.lastClip = c.Clip

	if c.Err != nil {
		e.toError(c.Err.Error())
		return
	}
	if c.Clip.Empty() {
		e.toError("nothing was recorded")
		return
	}

	e.dump(c)

	if e.rcfg.AutoRecognize {
		e.startRecognition()
	} else {
		e.setState(StateReady)
	}
}

func (e *Engine) startRecognition() {
	if e.adapter == nil {
		e.toError("no recognizer configured")
		return
	}
	if err := e.runner.Submit(e.adapter, e.lastClip, e.gen, e.results); err != nil {
		e.toError(err.Error())
		return
	}
	e.setState(StateRecognizing)
	e.updateRecord(func(r *Record) { r.Recognizing = true })
	e.emitRecognizing(true)
}

func (e *Engine) handleResult(res recognizer.Result) {
	if res.Gen != e.gen || e.State() != StateRecognizing {
		e.log.Debug().Uint64("gen", res.Gen).Msg("Discarding stale recognition result")
		return
	}

	e.updateRecord(func(r *Record) { r.Recognizing = false })
	e.emitRecognizing(false)

	if res.Err != nil {
		// Any previously recognized text stays in the record for inspection.
		e.toError(res.Err.Error())
		return
	}

	e.updateRecord(func(r *Record) { r.Text = res.Outcome.Text })
	e.emitText(res.Outcome.Text)
	e.setState(StateReady)
}

func (e *Engine) handleRecognize() {
	switch e.State() {
	case StateReady, StateError:
	default:
		e.log.Debug().Str("state", e.State().String()).Msg("Recognize ignored")
		return
	}
	if e.lastClip.Empty() {
		e.toError("no recording to recognize")
		return
	}
	e.startRecognition()
}

func (e *Engine) handleSetText(text string) {
	if e.State() != StateReady {
		e.log.Debug().Str("state", e.State().String()).Msg("Text edit ignored")
		return
	}
	if e.Record().Text == text {
		return
	}
	e.updateRecord(func(r *Record) { r.Text = text })
	e.emitText(text)
}

func (e *Engine) handleFinalize() {
	if e.State() != StateReady {
		e.log.Debug().Str("state", e.State().String()).Msg("Finalize ignored")
		return
	}
	if e.Record().Submitted {
		e.log.Warn().Msg("Annotation already submitted, finalize swallowed")
		return
	}

	e.updateRecord(func(r *Record) { r.Submitted = true })
	rec := e.Record()
	e.log.Info().Str("annotation", rec.ID).Int("chars", len(rec.Text)).Msg("Annotation finalized")
	for _, l := range e.listeners {
		l.OnAnnotation(rec)
	}

	e.lastClip = audio.Clip{}
	e.setState(StateIdle)
}

func (e *Engine) handleCancel() {
	if e.State() == StateIdle {
		e.log.Debug().Msg("Cancel ignored, already idle")
		return
	}

	if e.session != nil {
		session := e.session
		e.session = nil
		e.sessionDone = nil
		session.Stop()
	}

	// Everything still in flight belongs to a dead attempt now.
	e.gen++
	if e.runner.Busy() {
		go e.runner.Cancel(e.cancelGrace)
	}

	if e.Record().Recording {
		e.emitRecording(false)
	}
	if e.Record().Recognizing {
		e.emitRecognizing(false)
	}
	e.setRecord(Record{})
	e.setState(StateIdle)
	e.log.Info().Msg("Annotation attempt cancelled")
}

func (e *Engine) handleSetProvider(rc config.RecognizerConfig) {
	if e.State() != StateIdle {
		e.log.Warn().Str("state", e.State().String()).Msg("Provider change rejected while busy")
		e.emitError("cannot change recognizer during an annotation attempt")
		return
	}

	adapter, err := e.newAdapter(rc)
	if err != nil {
		e.log.Error().Err(err).Str("provider", rc.Provider).Msg("Recognizer configuration rejected")
		e.emitError(err.Error())
		return
	}

	if e.adapter != nil {
		e.adapter.Close()
	}
	e.adapter = adapter
	e.rcfg = rc
	e.log.Info().Str("provider", adapter.Name()).Msg("Recognizer changed")
}

func (e *Engine) toError(msg string) {
	e.updateRecord(func(r *Record) { r.Err = msg })
	e.setState(StateError)
	e.emitError(msg)
}

func (e *Engine) dump(c audio.Completion) {
	if e.dumpDir == "" {
		return
	}
	if err := os.MkdirAll(e.dumpDir, 0o755); err != nil {
		e.log.Warn().Err(err).Msg("Cannot create dump directory")
		return
	}
	path := filepath.Join(e.dumpDir, c.SessionID+".wav")
	f, err := os.Create(path)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("Cannot create dump file")
		return
	}
	defer f.Close()
	if err := c.Clip.WriteWAV(f); err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("Cannot write dump file")
		return
	}
	e.log.Debug().Str("path", path).Msg("Take dumped")
}

// --- state/record plumbing ---

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) setRecord(r Record) {
	e.mu.Lock()
	e.record = r
	e.mu.Unlock()
}

func (e *Engine) updateRecord(fn func(*Record)) {
	e.mu.Lock()
	fn(&e.record)
	e.mu.Unlock()
}

func (e *Engine) emitRecording(v bool) {
	for _, l := range e.listeners {
		l.OnRecordingChanged(v)
	}
}

func (e *Engine) emitRecognizing(v bool) {
	for _, l := range e.listeners {
		l.OnRecognizingChanged(v)
	}
}

func (e *Engine) emitText(text string) {
	for _, l := range e.listeners {
		l.OnTextChanged(text)
	}
}

func (e *Engine) emitError(msg string) {
	for _, l := range e.listeners {
		l.OnError(msg)
	}
}
