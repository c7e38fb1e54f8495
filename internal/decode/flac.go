package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

func decodeFLAC(r io.Reader) (Decoded, error) {
	stream, err := flac.New(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("flac: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bits := int(info.BitsPerSample)
	if channels < 1 {
		return Decoded{}, fmt.Errorf("flac: invalid channel count %d", channels)
	}
	if bits < 4 || bits > 32 {
		return Decoded{}, fmt.Errorf("flac: unsupported bit depth %d", bits)
	}

	out := make([][]float64, channels)
	if info.NSamples > 0 {
		for c := range out {
			out[c] = make([]float64, 0, int(info.NSamples))
		}
	}

	scale := fullScale(bits)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Decoded{}, fmt.Errorf("flac: parsing frame: %w", err)
		}
		for c := 0; c < channels; c++ {
			for _, s := range frame.Subframes[c].Samples {
				out[c] = append(out[c], float64(s)/scale)
			}
		}
	}

	return Decoded{
		SampleRate: int(info.SampleRate),
		Channels:   out,
		BitDepth:   bitDepthLabel(bits),
	}, nil
}
