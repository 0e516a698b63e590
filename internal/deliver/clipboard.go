// Package deliver hands finalized annotations to their destination.
package deliver

import (
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/annotation"
)

// Clipboard copies every finalized annotation to the system clipboard so it
// can be pasted wherever the note belongs.
type Clipboard struct {
	annotation.NopListener
	log zerolog.Logger

	// writeAll is swapped out by tests.
	writeAll func(text string) error
}

func NewClipboard(log zerolog.Logger) *Clipboard {
	return &Clipboard{
		log:      log.With().Str("component", "deliver").Logger(),
		writeAll: clipboard.WriteAll,
	}
}

func (c *Clipboard) OnAnnotation(rec annotation.Record) {
	if rec.Text == "" {
		c.log.Debug().Str("annotation", rec.ID).Msg("Skipping empty annotation")
		return
	}
	if err := c.writeAll(rec.Text); err != nil {
		c.log.Error().Err(err).Str("annotation", rec.ID).Msg("Failed to copy annotation to clipboard")
		return
	}
	c.log.Info().Str("annotation", rec.ID).Int("chars", len(rec.Text)).Msg("Annotation copied to clipboard")
}
