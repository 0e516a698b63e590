package recognizer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
)

func TestYandexRequiresAPIKey(t *testing.T) {
	_, err := NewYandex(config.YandexConfig{}, "ru-RU", zerolog.Nop())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestYandexRecognizeSuccess(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x10, 0x00}, 1600)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Api-Key yk" {
			t.Errorf("authorization header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("lang") != "ru-RU" || q.Get("topic") != "general" || q.Get("format") != "lpcm" || q.Get("sampleRateHertz") != "16000" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, pcm) {
			t.Errorf("body is not the raw PCM: %d bytes", len(body))
		}
		w.Write([]byte(`{"result": "привет мир"}`))
	}))
	defer srv.Close()

	a, err := NewYandex(config.YandexConfig{APIKey: "yk", Endpoint: srv.URL}, "ru-RU", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, err := a.Recognize(context.Background(), pcm, monoFormat())
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if out.Text != "привет мир" {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestYandexRejectsUnsupportedRate(t *testing.T) {
	a, _ := NewYandex(config.YandexConfig{APIKey: "yk", Endpoint: "http://unused"}, "ru-RU", zerolog.Nop())
	odd := audio.Format{SampleRate: 44100, Channels: 1, BytesPerSample: 2}
	if _, err := a.Recognize(context.Background(), make([]byte, 64), odd); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestYandexBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": "UNAUTHORIZED", "error_message": "bad key"}`))
	}))
	defer srv.Close()

	a, _ := NewYandex(config.YandexConfig{APIKey: "yk", Endpoint: srv.URL}, "ru-RU", zerolog.Nop())
	if _, err := a.Recognize(context.Background(), make([]byte, 64), monoFormat()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestYandexEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": ""}`))
	}))
	defer srv.Close()

	a, _ := NewYandex(config.YandexConfig{APIKey: "yk", Endpoint: srv.URL}, "ru-RU", zerolog.Nop())
	if _, err := a.Recognize(context.Background(), make([]byte, 64), monoFormat()); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
