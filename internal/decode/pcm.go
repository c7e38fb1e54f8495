package decode

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errInvalidContainer = errors.New("invalid container header")

// WAVE format tags.
const (
	wavFormatPCM        = 0x0001
	wavFormatIEEEFloat  = 0x0003
	wavFormatExtensible = 0xFFFE
)

func decodeWAV(r io.ReadSeeker) (Decoded, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Decoded{}, fmt.Errorf("wav: %w", errInvalidContainer)
	}
	isFloat := false
	switch dec.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
	case wavFormatIEEEFloat:
		if dec.BitDepth != 32 {
			return Decoded{}, fmt.Errorf("wav: %d-bit IEEE float: %w", dec.BitDepth, ErrUnsupportedFormat)
		}
		isFloat = true
	default:
		return Decoded{}, fmt.Errorf("wav: format tag %#04x: %w", dec.WavAudioFormat, ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Decoded{}, fmt.Errorf("wav: reading PCM data: %w", err)
	}
	if isFloat {
		return fromFloatBits(buf)
	}

	bits := int(dec.BitDepth)
	// 8-bit WAV is unsigned, centred on 128.
	offset := 0
	if bits == 8 {
		offset = 128
	}
	return fromIntBuffer(buf, bits, offset)
}

func decodeAIFF(r io.ReadSeeker) (Decoded, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return Decoded{}, fmt.Errorf("aiff: %w", errInvalidContainer)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Decoded{}, fmt.Errorf("aiff: reading PCM data: %w", err)
	}
	if buf.Format == nil {
		buf.Format = dec.Format()
	}
	return fromIntBuffer(buf, int(dec.BitDepth), 0)
}

// fromFloatBits reinterprets 32-bit samples read as integers as IEEE floats.
// Non-finite samples are zeroed.
func fromFloatBits(buf *audio.IntBuffer) (Decoded, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return Decoded{}, errors.New("missing format information")
	}
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		f := math.Float32frombits(uint32(int32(v)))
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			f = 0
		}
		samples[i] = f
	}
	return Decoded{
		SampleRate: buf.Format.SampleRate,
		Channels:   deinterleaveFloat(samples, buf.Format.NumChannels),
		BitDepth:   "32-bit float",
	}, nil
}

func fromIntBuffer(buf *audio.IntBuffer, bits, offset int) (Decoded, error) {
	if buf == nil || buf.Format == nil {
		return Decoded{}, errors.New("missing format information")
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return Decoded{}, fmt.Errorf("invalid channel count %d", channels)
	}
	if bits < 8 || bits > 32 {
		return Decoded{}, fmt.Errorf("unsupported bit depth %d", bits)
	}

	return Decoded{
		SampleRate: buf.Format.SampleRate,
		Channels:   deinterleave(buf.Data, channels, fullScale(bits), offset),
		BitDepth:   bitDepthLabel(bits),
	}, nil
}
