package deliver

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/void2byte/voice2text/internal/annotation"
)

func TestClipboardCopiesFinalizedText(t *testing.T) {
	var got string
	c := NewClipboard(zerolog.Nop())
	c.writeAll = func(text string) error {
		got = text
		return nil
	}

	c.OnAnnotation(annotation.Record{ID: "a1", Text: "note to self", Submitted: true})
	if got != "note to self" {
		t.Fatalf("clipboard got %q", got)
	}
}

func TestClipboardSkipsEmptyText(t *testing.T) {
	called := false
	c := NewClipboard(zerolog.Nop())
	c.writeAll = func(string) error {
		called = true
		return nil
	}

	c.OnAnnotation(annotation.Record{ID: "a2", Submitted: true})
	if called {
		t.Fatal("empty annotation must not touch the clipboard")
	}
}

func TestClipboardWriteFailureIsSwallowed(t *testing.T) {
	c := NewClipboard(zerolog.Nop())
	c.writeAll = func(string) error { return errors.New("no display") }

	// Must not panic; the failure is logged, nothing else.
	c.OnAnnotation(annotation.Record{ID: "a3", Text: "lost", Submitted: true})
}
