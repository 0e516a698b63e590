package recognizer

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
)

// whisperAdapter runs local inference through the whisper.cpp bindings.
// One model is loaded for the adapter's lifetime; calls are serialized
// because a model context is not safe for concurrent use.
type whisperAdapter struct {
	mu       sync.Mutex
	model    whisper.Model
	language string
	threads  int
	log      zerolog.Logger
}

// NewWhisper loads the model at the configured path. A missing model file is
// a configuration error reported before any inference is attempted.
func NewWhisper(cfg config.WhisperConfig, language string, log zerolog.Logger) (Adapter, error) {
	if cfg.ModelPath == "" {
		return nil, &ConfigError{Provider: "whisper", Field: "model_path", Reason: "is required"}
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, &ConfigError{Provider: "whisper", Field: "model_path", Reason: fmt.Sprintf("not readable: %v", err)}
	}

	model, err := whisper.New(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model: %w", err)
	}

	return &whisperAdapter{
		model:    model,
		language: shortLanguage(language),
		threads:  cfg.Threads,
		log:      log.With().Str("recognizer", "whisper").Logger(),
	}, nil
}

func (w *whisperAdapter) Name() string { return "whisper" }

func (w *whisperAdapter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model != nil {
		w.model.Close()
		w.model = nil
	}
	return nil
}

func (w *whisperAdapter) Recognize(ctx context.Context, pcm []byte, format audio.Format) (Outcome, error) {
	if format.SampleRate != 16000 || format.Channels != 1 || format.BytesPerSample != 2 {
		return Outcome{}, fmt.Errorf("%w: whisper requires 16 kHz mono 16-bit PCM, got %d Hz %d ch %d bytes/sample",
			ErrUnsupportedFormat, format.SampleRate, format.Channels, format.BytesPerSample)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model == nil {
		return Outcome{}, fmt.Errorf("whisper model is closed")
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create whisper context: %w", err)
	}
	if w.threads > 0 {
		wctx.SetThreads(uint(w.threads))
	}
	if w.language != "" && w.language != "auto" {
		wctx.SetLanguage(w.language)
	}
	wctx.SetTranslate(false)

	samples := pcmToFloat32(pcm)
	w.log.Debug().Int("samples", len(samples)).Msg("Running whisper inference")
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Outcome{}, fmt.Errorf("whisper process failed: %w", err)
	}

	var parts []string
	var alts []Alternative
	for {
		segment, err := wctx.NextSegment()
		if err != nil {
			break
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		alts = append(alts, Alternative{Text: text})
	}

	// Inference is not interruptible; honor a cancel that arrived meanwhile.
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if len(parts) == 0 {
		return Outcome{}, ErrEmptyResult
	}
	return Outcome{Text: strings.Join(parts, " "), Alternatives: alts}, nil
}

// pcmToFloat32 converts little-endian PCM16 bytes to normalized float32 samples.
func pcmToFloat32(pcm []byte) []float32 {
	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples
}

// shortLanguage maps codes like "en-US" to whisper's two-letter form.
func shortLanguage(language string) string {
	if i := strings.IndexByte(language, '-'); i > 0 {
		return language[:i]
	}
	return language
}
