package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteWAV writes the clip as a PCM WAV file, so a finished take can be kept
// on disk for inspection.
func (c Clip) WriteWAV(w io.Writer) error {
	f := c.Format
	if !f.Valid() {
		return fmt.Errorf("audio: cannot write WAV with format %+v", f)
	}

	dataLen := uint32(len(c.PCM))
	header := make([]byte, 0, 44)
	u32 := func(v uint32) []byte {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		return b[:]
	}
	u16 := func(v uint16) []byte {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		return b[:]
	}

	header = append(header, "RIFF"...)
	header = append(header, u32(36+dataLen)...)
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = append(header, u32(16)...)
	header = append(header, u16(1)...) // PCM
	header = append(header, u16(uint16(f.Channels))...)
	header = append(header, u32(uint32(f.SampleRate))...)
	header = append(header, u32(uint32(f.ByteRate()))...)
	header = append(header, u16(uint16(f.FrameSize()))...)
	header = append(header, u16(uint16(f.BytesPerSample*8))...)
	header = append(header, "data"...)
	header = append(header, u32(dataLen)...)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(c.PCM)
	return err
}
