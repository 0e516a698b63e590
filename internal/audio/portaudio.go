package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const framesPerRead = 512

type portAudioSource struct{}

// NewPortAudio initializes PortAudio and returns a Source backed by it.
func NewPortAudio() (Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioSource{}, nil
}

func (p *portAudioSource) Open(deviceID string, format Format) (Stream, error) {
	var device *portaudio.DeviceInfo
	if deviceID == "" {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: no default input device: %v", ErrDeviceNotFound, err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
		for _, d := range devices {
			if d.Name == deviceID {
				device = d
				break
			}
		}
	}
	if device == nil {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceID)
	}

	// int16 frames so the raw bytes are already little-endian PCM16.
	buffer := make([]int16, framesPerRead*format.Channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: format.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(format.SampleRate),
		FramesPerBuffer: framesPerRead,
	}, buffer)
	if err != nil {
		if strings.Contains(err.Error(), "unavailable") {
			return nil, fmt.Errorf("%w: %q: %v", ErrDeviceBusy, device.Name, err)
		}
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("%w: %q: %v", ErrDeviceBusy, device.Name, err)
	}

	return &portAudioStream{stream: stream, buffer: buffer}, nil
}

func (p *portAudioSource) Devices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	defaultDevice, _ := portaudio.DefaultInputDevice()
	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}
	return result, nil
}

func (p *portAudioSource) Close() error {
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream *portaudio.Stream
	buffer []int16

	closeOnce sync.Once
	closeErr  error
}

func (s *portAudioStream) Read() ([]byte, error) {
	if err := s.stream.Read(); err != nil {
		return nil, err
	}
	out := make([]byte, len(s.buffer)*2)
	for i, sample := range s.buffer {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out, nil
}

func (s *portAudioStream) Close() error {
	s.closeOnce.Do(func() {
		s.stream.Stop()
		s.closeErr = s.stream.Close()
	})
	return s.closeErr
}
