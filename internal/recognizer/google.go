package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
)

const googleEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// googleAdapter speaks the Google Cloud Speech-to-Text synchronous REST API.
type googleAdapter struct {
	apiKey   string
	language string
	model    string
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewGoogle builds the Google Cloud adapter. The API key is required up
// front; a missing key fails here, not after a recording.
func NewGoogle(cfg config.GoogleConfig, language string, log zerolog.Logger) (Adapter, error) {
	if cfg.APIKey == "" {
		return nil, missingCredential("google", "api_key")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = googleEndpoint
	}
	return &googleAdapter{
		apiKey:   cfg.APIKey,
		language: language,
		model:    cfg.Model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 45 * time.Second},
		log:      log.With().Str("recognizer", "google").Logger(),
	}, nil
}

func (g *googleAdapter) Name() string { return "google" }

func (g *googleAdapter) Close() error { return nil }

type googleRequest struct {
	Config googleRecognitionConfig `json:"config"`
	Audio  googleAudio             `json:"audio"`
}

type googleRecognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
	Model           string `json:"model,omitempty"`
	MaxAlternatives int    `json:"maxAlternatives,omitempty"`
}

type googleAudio struct {
	Content string `json:"content"`
}

type googleResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (g *googleAdapter) Recognize(ctx context.Context, pcm []byte, format audio.Format) (Outcome, error) {
	// LINEAR16 means exactly that; anything else is rejected, not resampled.
	if format.Channels != 1 || format.BytesPerSample != 2 {
		return Outcome{}, fmt.Errorf("%w: google requires mono 16-bit PCM, got %d ch %d bytes/sample",
			ErrUnsupportedFormat, format.Channels, format.BytesPerSample)
	}

	body, err := json.Marshal(googleRequest{
		Config: googleRecognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: format.SampleRate,
			LanguageCode:    g.language,
			Model:           g.model,
			MaxAlternatives: 3,
		},
		Audio: googleAudio{Content: base64.StdEncoding.EncodeToString(pcm)},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	g.log.Debug().Int("bytes", len(pcm)).Dur("audio", format.Duration(len(pcm))).Msg("Sending recognize request")
	resp, err := g.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Outcome{}, fmt.Errorf("%w: google returned %s: %s", ErrTransport, resp.Status, snippet)
	}

	var parsed googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Outcome{}, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}

	if len(parsed.Results) == 0 || len(parsed.Results[0].Alternatives) == 0 {
		return Outcome{}, ErrEmptyResult
	}

	alts := parsed.Results[0].Alternatives
	out := Outcome{Text: alts[0].Transcript}
	for _, a := range alts {
		out.Alternatives = append(out.Alternatives, Alternative{Text: a.Transcript, Confidence: a.Confidence})
	}
	return out, nil
}
