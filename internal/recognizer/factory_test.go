package recognizer

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/config"
)

func TestFactoryUnknownProvider(t *testing.T) {
	_, err := New(config.RecognizerConfig{Provider: "dragon"}, zerolog.Nop())
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestFactoryGoogleWithoutCredentialFailsAtSelection(t *testing.T) {
	_, err := New(config.RecognizerConfig{Provider: "google", Language: "en-US"}, zerolog.Nop())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError at selection time, got %v", err)
	}
}

func TestFactoryWhisperWithBadModelPathFailsAtSelection(t *testing.T) {
	cfg := config.RecognizerConfig{
		Provider: "whisper",
		Language: "en-US",
		Whisper:  config.WhisperConfig{ModelPath: "/nonexistent/model.bin"},
	}
	_, err := New(cfg, zerolog.Nop())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for bad model path, got %v", err)
	}
	if cfgErr.Field != "model_path" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestFactoryMock(t *testing.T) {
	a, err := New(config.RecognizerConfig{Provider: "mock", MockText: "test"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("mock provider: %v", err)
	}
	if a.Name() != "mock" {
		t.Fatalf("name = %q", a.Name())
	}
}
