package recognizer

import (
	"context"

	"github.com/void2byte/voice2text/internal/audio"
)

// mockAdapter returns canned text. Useful for headless runs and tests.
type mockAdapter struct {
	text string
}

// NewMock returns an adapter that always recognizes the given text.
func NewMock(text string) Adapter {
	return &mockAdapter{text: text}
}

func (m *mockAdapter) Recognize(ctx context.Context, pcm []byte, format audio.Format) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if m.text == "" {
		return Outcome{}, ErrEmptyResult
	}
	return Outcome{Text: m.text, Alternatives: []Alternative{{Text: m.text, Confidence: 1.0}}}, nil
}

func (m *mockAdapter) Name() string { return "mock" }

func (m *mockAdapter) Close() error { return nil }
