package audio

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func testFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, BytesPerSample: 2}
}

func TestBufferAppendAccountsEveryByte(t *testing.T) {
	b := NewBuffer(testFormat())

	total := 0
	for _, n := range []int{320, 640, 2, 1024} {
		if err := b.Append(make([]byte, n)); err != nil {
			t.Fatalf("append %d bytes: %v", n, err)
		}
		total += n
	}

	if b.Len() != total {
		t.Fatalf("expected length %d, got %d", total, b.Len())
	}

	b.seal()
	clip, err := b.Snapshot()
	if err != nil {
		t.Fatalf("snapshot after seal: %v", err)
	}
	if len(clip.PCM) != total {
		t.Fatalf("expected snapshot of %d bytes, got %d", total, len(clip.PCM))
	}
}

func TestBufferRejectsMisalignedChunk(t *testing.T) {
	b := NewBuffer(Format{SampleRate: 16000, Channels: 2, BytesPerSample: 2})

	if err := b.Append(make([]byte, 3)); !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("misaligned chunk must not be stored, buffer has %d bytes", b.Len())
	}
}

func TestBufferSnapshotRefusedWhileRecording(t *testing.T) {
	b := NewBuffer(testFormat())
	if err := b.Append(make([]byte, 320)); err != nil {
		t.Fatal(err)
	}

	if _, err := b.Snapshot(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady before seal, got %v", err)
	}
}

func TestBufferSealedRejectsAppend(t *testing.T) {
	b := NewBuffer(testFormat())
	b.seal()

	if err := b.Append(make([]byte, 320)); !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
}

func TestBufferRecentReturnsTail(t *testing.T) {
	f := testFormat()
	b := NewBuffer(f)

	// Two seconds of audio: first second 0x01, second second 0x02.
	oneSecond := f.ByteRate()
	b.Append(bytes.Repeat([]byte{0x01}, oneSecond))
	b.Append(bytes.Repeat([]byte{0x02}, oneSecond))

	tail := b.Recent(0.5)
	if len(tail) != oneSecond/2 {
		t.Fatalf("expected %d bytes for half a second, got %d", oneSecond/2, len(tail))
	}
	for i, v := range tail {
		if v != 0x02 {
			t.Fatalf("byte %d is 0x%02x, tail should come from the newest audio", i, v)
		}
	}

	// Asking for more than is buffered returns everything.
	all := b.Recent(10)
	if len(all) != 2*oneSecond {
		t.Fatalf("expected full %d bytes, got %d", 2*oneSecond, len(all))
	}
}

func TestBufferRecentEmptyBufferIsEmpty(t *testing.T) {
	b := NewBuffer(testFormat())
	if got := b.Recent(1.0); len(got) != 0 {
		t.Fatalf("empty buffer must yield empty tail, got %d bytes", len(got))
	}
}

func TestFormatMath(t *testing.T) {
	f := testFormat()
	if f.FrameSize() != 2 {
		t.Fatalf("frame size = %d, want 2", f.FrameSize())
	}
	if f.ByteRate() != 32000 {
		t.Fatalf("byte rate = %d, want 32000", f.ByteRate())
	}
	if d := f.Duration(16000); d != 500*time.Millisecond {
		t.Fatalf("duration of 16000 bytes = %s, want 500ms", d)
	}
	if n := f.Bytes(250 * time.Millisecond); n != 8000 {
		t.Fatalf("bytes for 250ms = %d, want 8000", n)
	}
}

func TestClipWriteWAV(t *testing.T) {
	clip := Clip{PCM: bytes.Repeat([]byte{0x00, 0x10}, 100), Format: testFormat()}

	var buf bytes.Buffer
	if err := clip.WriteWAV(&buf); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	out := buf.Bytes()
	if len(out) != 44+len(clip.PCM) {
		t.Fatalf("expected %d bytes, got %d", 44+len(clip.PCM), len(out))
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if !bytes.Equal(out[44:], clip.PCM) {
		t.Fatal("payload does not match clip PCM")
	}
}

func TestLevelSilenceAndTone(t *testing.T) {
	f := testFormat()

	silence := make([]byte, 640)
	if l := Level(silence, f); l != 0 {
		t.Fatalf("silence level = %f, want 0", l)
	}

	// Full-scale square wave should be close to 1.0.
	loud := make([]byte, 640)
	for i := 0; i < len(loud); i += 2 {
		loud[i] = 0xFF
		loud[i+1] = 0x7F
	}
	if l := Level(loud, f); l < 0.99 || l > 1.0 {
		t.Fatalf("full-scale level = %f, want ~1.0", l)
	}
}
