package audio

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

var (
	// ErrFormatMismatch is returned when a chunk is not a whole number of frames.
	ErrFormatMismatch = errors.New("audio: chunk length is not a multiple of the frame size")
	// ErrSealed is returned when appending to a buffer whose session has ended.
	ErrSealed = errors.New("audio: buffer is sealed")
	// ErrNotReady is returned when a snapshot is requested before the session stopped.
	ErrNotReady = errors.New("audio: buffer not ready, session still recording")
)

// Buffer accumulates raw PCM chunks for exactly one capture session.
//
// A buffer is created together with its session and dies with it. There is
// deliberately no way to clear and reuse one: a cleared-and-reused buffer is
// how stale frames from an aborted take end up in the next recording.
type Buffer struct {
	mu     sync.Mutex
	format Format
	chunks [][]byte
	size   int
	sealed bool
}

// NewBuffer creates an empty buffer for the given format.
func NewBuffer(format Format) *Buffer {
	return &Buffer{format: format}
}

// Format returns the PCM format the buffer was created with.
func (b *Buffer) Format() Format {
	return b.format
}

// Append adds a chunk of PCM bytes. The chunk is copied, so the caller may
// reuse its slice. Chunks must be whole frames.
func (b *Buffer) Append(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	if frame := b.format.FrameSize(); frame > 0 && len(chunk)%frame != 0 {
		return ErrFormatMismatch
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return ErrSealed
	}
	c := make([]byte, len(chunk))
	copy(c, chunk)
	b.chunks = append(b.chunks, c)
	b.size += len(c)
	return nil
}

// Len returns the total number of bytes appended so far.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Duration returns the audio time accumulated so far.
func (b *Buffer) Duration() time.Duration {
	return b.format.Duration(b.Len())
}

// Recent returns up to the last seconds worth of audio. It is a live view
// intended for level metering and previews, never for recognition. An empty
// buffer yields an empty slice; silence is never synthesized.
func (b *Buffer) Recent(seconds float64) []byte {
	if seconds <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	want := b.format.Bytes(time.Duration(seconds * float64(time.Second)))
	if want >= b.size {
		want = b.size
	}
	if want == 0 {
		return nil
	}

	out := make([]byte, 0, want)
	skip := b.size - want
	for _, c := range b.chunks {
		if skip >= len(c) {
			skip -= len(c)
			continue
		}
		out = append(out, c[skip:]...)
		skip = 0
	}
	return out
}

// seal freezes the buffer. Only the owning session calls this, when it
// reaches Stopped or Failed.
func (b *Buffer) seal() {
	b.mu.Lock()
	b.sealed = true
	b.mu.Unlock()
}

// Snapshot returns the full accumulated contents. It is only available once
// the owning session has sealed the buffer; before that it fails with
// ErrNotReady rather than handing out partial data.
func (b *Buffer) Snapshot() (Clip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.sealed {
		return Clip{}, ErrNotReady
	}
	return Clip{PCM: bytes.Join(b.chunks, nil), Format: b.format}, nil
}

// Clip is an immutable snapshot of a finished recording.
type Clip struct {
	PCM    []byte
	Format Format
}

// Empty reports whether the clip holds no audio.
func (c Clip) Empty() bool {
	return len(c.PCM) == 0
}

// Duration returns the audio time the clip covers.
func (c Clip) Duration() time.Duration {
	return c.Format.Duration(len(c.PCM))
}
