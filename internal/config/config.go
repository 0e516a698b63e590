package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Audio      AudioConfig      `yaml:"audio"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	// DumpDir, when set, receives a WAV copy of every finished take.
	DumpDir string `yaml:"dump_dir"`
}

type AudioConfig struct {
	DeviceID        string `yaml:"device_id"`
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	MaxDurationSec  int    `yaml:"max_duration_sec"`
	LevelIntervalMS int    `yaml:"level_interval_ms"`
}

type RecognizerConfig struct {
	Provider      string        `yaml:"provider"` // google, yandex, whisper, mock
	Language      string        `yaml:"language"`
	AutoRecognize bool          `yaml:"auto_recognize"`
	Google        GoogleConfig  `yaml:"google"`
	Yandex        YandexConfig  `yaml:"yandex"`
	Whisper       WhisperConfig `yaml:"whisper"`
	MockText      string        `yaml:"mock_text"`
}

type GoogleConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// Endpoint overrides the default API URL; used by tests.
	Endpoint string `yaml:"endpoint"`
}

type YandexConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

type WhisperConfig struct {
	ModelPath string `yaml:"model_path"`
	Threads   int    `yaml:"threads"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Audio: AudioConfig{
			SampleRate:      16000,
			Channels:        1,
			MaxDurationSec:  60,
			LevelIntervalMS: 100,
		},
		Recognizer: RecognizerConfig{
			Provider:      "whisper",
			Language:      "en-US",
			AutoRecognize: true,
			Yandex: YandexConfig{
				Model: "general",
			},
		},
	}
}

// Load reads the YAML config at path (or defaults when path is empty),
// applies VOICE2TEXT_* environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.LogLevel, "VOICE2TEXT_LOG_LEVEL")
	overrideString(&cfg.DumpDir, "VOICE2TEXT_DUMP_DIR")
	overrideString(&cfg.Audio.DeviceID, "VOICE2TEXT_AUDIO_DEVICE_ID")
	overrideInt(&cfg.Audio.SampleRate, "VOICE2TEXT_AUDIO_SAMPLE_RATE")
	overrideInt(&cfg.Audio.Channels, "VOICE2TEXT_AUDIO_CHANNELS")
	overrideInt(&cfg.Audio.MaxDurationSec, "VOICE2TEXT_AUDIO_MAX_DURATION_SEC")
	overrideInt(&cfg.Audio.LevelIntervalMS, "VOICE2TEXT_AUDIO_LEVEL_INTERVAL_MS")
	overrideString(&cfg.Recognizer.Provider, "VOICE2TEXT_RECOGNIZER_PROVIDER")
	overrideString(&cfg.Recognizer.Language, "VOICE2TEXT_RECOGNIZER_LANGUAGE")
	overrideBool(&cfg.Recognizer.AutoRecognize, "VOICE2TEXT_RECOGNIZER_AUTO_RECOGNIZE")
	overrideString(&cfg.Recognizer.Google.APIKey, "VOICE2TEXT_GOOGLE_API_KEY")
	overrideString(&cfg.Recognizer.Google.Model, "VOICE2TEXT_GOOGLE_MODEL")
	overrideString(&cfg.Recognizer.Yandex.APIKey, "VOICE2TEXT_YANDEX_API_KEY")
	overrideString(&cfg.Recognizer.Yandex.Model, "VOICE2TEXT_YANDEX_MODEL")
	overrideString(&cfg.Recognizer.Whisper.ModelPath, "VOICE2TEXT_WHISPER_MODEL_PATH")
	overrideInt(&cfg.Recognizer.Whisper.Threads, "VOICE2TEXT_WHISPER_THREADS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	switch cfg.Recognizer.Provider {
	case "google", "yandex", "whisper", "mock":
		// ok
	default:
		return fmt.Errorf("recognizer.provider must be one of google|yandex|whisper|mock, got %q", cfg.Recognizer.Provider)
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if cfg.Audio.Channels <= 0 {
		return errors.New("audio.channels must be positive")
	}
	if cfg.Audio.MaxDurationSec <= 0 {
		return errors.New("audio.max_duration_sec must be positive")
	}
	if cfg.Audio.LevelIntervalMS <= 0 {
		return errors.New("audio.level_interval_ms must be positive")
	}
	if cfg.Recognizer.Language == "" {
		return errors.New("recognizer.language must not be empty")
	}
	return nil
}
