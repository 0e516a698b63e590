package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
)

const yandexEndpoint = "https://stt.api.cloud.yandex.net/speech/v1/stt:recognize"

// Yandex SpeechKit accepts lpcm only at these rates.
var yandexSampleRates = map[int]bool{8000: true, 16000: true, 48000: true}

// yandexAdapter speaks the Yandex SpeechKit v1 short-audio REST API: raw PCM
// in the request body, parameters in the query string.
type yandexAdapter struct {
	apiKey   string
	language string
	model    string
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewYandex builds the Yandex SpeechKit adapter.
func NewYandex(cfg config.YandexConfig, language string, log zerolog.Logger) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, missingCredential("yandex", "api_key")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = yandexEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = "general"
	}
	return &yandexAdapter{
		apiKey:   cfg.APIKey,
		language: language,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 45 * time.Second},
		log:      log.With().Str("recognizer", "yandex").Logger(),
	}, nil
}

func (y *yandexAdapter) Name() string { return "yandex" }

func (y *yandexAdapter) Close() error { return nil }

type yandexResponse struct {
	Result       string `json:"result"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (y *yandexAdapter) Recognize(ctx context.Context, pcm []byte, format audio.Format) (Outcome, error) {
	if format.Channels != 1 || format.BytesPerSample != 2 || !yandexSampleRates[format.SampleRate] {
		return Outcome{}, fmt.Errorf("%w: yandex requires mono 16-bit PCM at 8/16/48 kHz, got %d Hz %d ch",
			ErrUnsupportedFormat, format.SampleRate, format.Channels)
	}

	q := url.Values{}
	q.Set("lang", y.language)
	q.Set("topic", y.model)
	q.Set("format", "lpcm")
	q.Set("sampleRateHertz", strconv.Itoa(format.SampleRate))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.endpoint+"?"+q.Encode(), bytes.NewReader(pcm))
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Api-Key "+y.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	y.log.Debug().Int("bytes", len(pcm)).Dur("audio", format.Duration(len(pcm))).Msg("Sending recognize request")
	resp, err := y.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Outcome{}, fmt.Errorf("%w: yandex returned %s: %s", ErrTransport, resp.Status, snippet)
	}

	var parsed yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Outcome{}, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if parsed.ErrorCode != "" {
		return Outcome{}, fmt.Errorf("%w: yandex error %s: %s", ErrTransport, parsed.ErrorCode, parsed.ErrorMessage)
	}
	if parsed.Result == "" {
		return Outcome{}, ErrEmptyResult
	}

	return Outcome{
		Text:         parsed.Result,
		Alternatives: []Alternative{{Text: parsed.Result}},
	}, nil
}
