package audio

import "errors"

var (
	// ErrDeviceNotFound is returned when no input device matches the requested ID.
	ErrDeviceNotFound = errors.New("audio: input device not found")
	// ErrDeviceBusy is returned when the input device cannot be acquired.
	ErrDeviceBusy = errors.New("audio: input device busy")
)

// Source abstracts the machine's audio input devices.
type Source interface {
	// Open acquires the device and starts delivering PCM in the given format.
	// The returned stream is exclusively owned by one capture session.
	Open(deviceID string, format Format) (Stream, error)
	// Devices enumerates the available input devices.
	Devices() ([]Device, error)
	// Close releases the source itself.
	Close() error
}

// Stream is one acquired input device delivering PCM frames.
type Stream interface {
	// Read blocks until the next chunk of PCM bytes is available.
	Read() ([]byte, error)
	// Close stops the stream and releases the device.
	Close() error
}

// Device represents an audio input device.
type Device struct {
	ID      string
	Name    string
	Default bool
}
