package audio

import (
	"encoding/binary"
	"math"
)

// Level computes a normalized 0.0-1.0 volume level from the RMS amplitude of
// a chunk of 16-bit PCM. It is advisory telemetry for UI metering only.
func Level(chunk []byte, format Format) float64 {
	if format.BytesPerSample != 2 || len(chunk) < 2 {
		return 0
	}

	var sum float64
	n := len(chunk) / 2
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(chunk[i*2:]))
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(n))

	level := rms / 32768.0
	if level > 1 {
		level = 1
	}
	return level
}
