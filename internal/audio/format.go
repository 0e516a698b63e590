package audio

import "time"

// Format describes raw PCM audio: sample rate in Hz, channel count and
// bytes per sample. It is fixed for the lifetime of one capture session.
type Format struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

// DefaultFormat is 16 kHz mono 16-bit, the format every bundled recognizer accepts.
func DefaultFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, BytesPerSample: 2}
}

// FrameSize returns the byte length of one frame (one sample across all channels).
func (f Format) FrameSize() int {
	return f.Channels * f.BytesPerSample
}

// ByteRate returns the number of PCM bytes produced per second.
func (f Format) ByteRate() int {
	return f.SampleRate * f.FrameSize()
}

// Duration returns how much audio time n bytes represent.
func (f Format) Duration(n int) time.Duration {
	rate := f.ByteRate()
	if rate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(rate)
}

// Bytes returns the byte length of d worth of audio, aligned down to a whole frame.
func (f Format) Bytes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	n := int(d * time.Duration(f.ByteRate()) / time.Second)
	frame := f.FrameSize()
	if frame > 0 {
		n -= n % frame
	}
	return n
}

// Valid reports whether all format parameters are positive.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0 && f.BytesPerSample > 0
}
