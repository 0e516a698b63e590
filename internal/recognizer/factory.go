package recognizer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/config"
)

// New selects and constructs the configured provider adapter. Unknown
// selectors and invalid provider configuration fail here, at selection time,
// so no recording starts against a recognizer that cannot work.
func New(cfg config.RecognizerConfig, log zerolog.Logger) (Adapter, error) {
	switch cfg.Provider {
	case "google":
		return NewGoogle(cfg.Google, cfg.Language, log)
	case "yandex":
		return NewYandex(cfg.Yandex, cfg.Language, log)
	case "whisper":
		return NewWhisper(cfg.Whisper, cfg.Language, log)
	case "mock":
		return NewMock(cfg.MockText), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
