package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

func decodeOGG(r io.Reader) (Decoded, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("ogg: %w", err)
	}
	if format.Channels < 1 {
		return Decoded{}, fmt.Errorf("ogg: invalid channel count %d", format.Channels)
	}
	return Decoded{
		SampleRate: format.SampleRate,
		Channels:   deinterleaveFloat(samples, format.Channels),
		BitDepth:   BitDepthNA,
	}, nil
}
