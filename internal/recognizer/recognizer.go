// Package recognizer turns finished audio clips into text through a set of
// pluggable provider adapters.
package recognizer

import (
	"context"

	"github.com/void2byte/voice2text/internal/audio"
)

// Outcome is the result of one recognition call.
type Outcome struct {
	Text         string
	Alternatives []Alternative
}

// Alternative is one candidate transcription with its confidence, when the
// provider reports one.
type Alternative struct {
	Text       string
	Confidence float64
}

// Adapter converts a finalized PCM snapshot into recognized text. Each
// variant hides its own transport, auth and model details. Configuration is
// validated when the adapter is constructed, never at call time.
type Adapter interface {
	// Recognize blocks for the duration of the provider call. It must honor
	// ctx cancellation where the backend allows it.
	Recognize(ctx context.Context, pcm []byte, format audio.Format) (Outcome, error)
	// Name identifies the provider for logging.
	Name() string
	// Close releases provider resources.
	Close() error
}
