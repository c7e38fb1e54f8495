package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian stereo.
const mp3Channels = 2

func decodeMP3(r io.Reader) (Decoded, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return Decoded{}, fmt.Errorf("mp3: reading frames: %w", err)
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return Decoded{
		SampleRate: dec.SampleRate(),
		Channels:   deinterleave(samples, mp3Channels, fullScale(16), 0),
		BitDepth:   BitDepthNA,
	}, nil
}
