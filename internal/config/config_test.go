package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected default audio format: %+v", cfg.Audio)
	}
	if cfg.Audio.MaxDurationSec != 60 {
		t.Fatalf("default max duration = %d, want 60", cfg.Audio.MaxDurationSec)
	}
	if !cfg.Recognizer.AutoRecognize {
		t.Fatal("auto recognition should default to on")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
log_level: debug
audio:
  device_id: "USB Microphone"
  max_duration_sec: 30
recognizer:
  provider: yandex
  language: ru-RU
  auto_recognize: false
  yandex:
    api_key: test-key
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Audio.DeviceID != "USB Microphone" || cfg.Audio.MaxDurationSec != 30 {
		t.Fatalf("audio section not applied: %+v", cfg.Audio)
	}
	// Unset fields keep their defaults.
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("sample_rate lost its default: %d", cfg.Audio.SampleRate)
	}
	if cfg.Recognizer.Provider != "yandex" || cfg.Recognizer.Yandex.APIKey != "test-key" {
		t.Fatalf("recognizer section not applied: %+v", cfg.Recognizer)
	}
	if cfg.Recognizer.AutoRecognize {
		t.Fatal("auto_recognize should be off")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOICE2TEXT_RECOGNIZER_PROVIDER", "mock")
	t.Setenv("VOICE2TEXT_AUDIO_MAX_DURATION_SEC", "15")
	t.Setenv("VOICE2TEXT_RECOGNIZER_AUTO_RECOGNIZE", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Recognizer.Provider != "mock" {
		t.Fatalf("provider = %q, want mock", cfg.Recognizer.Provider)
	}
	if cfg.Audio.MaxDurationSec != 15 {
		t.Fatalf("max duration = %d, want 15", cfg.Audio.MaxDurationSec)
	}
	if cfg.Recognizer.AutoRecognize {
		t.Fatal("auto_recognize override not applied")
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Recognizer.Provider = "cortana"
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestValidateRejectsNonPositiveRates(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 0
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for zero sample rate")
	}

	cfg = Default()
	cfg.Audio.MaxDurationSec = -1
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for negative max duration")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
