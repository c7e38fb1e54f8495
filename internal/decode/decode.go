// SPDX-License-Identifier: MIT

// Package decode turns audio files into de-interleaved float samples.
package decode

import (
	"fmt"
	"os"

	"soundscope/internal/log"
)

// BitDepthNA labels formats with no fixed PCM sample size.
const BitDepthNA = "n/a"

// Decoded is the result of decoding one file.
type Decoded struct {
	SampleRate int
	Channels   [][]float64 // one slice per channel, samples in [-1, 1]
	BitDepth   string      // "16-bit", "24-bit", ... or "n/a"
	Format     Format
}

// Frames is the per-channel sample count.
func (d Decoded) Frames() int {
	if len(d.Channels) == 0 {
		return 0
	}
	return len(d.Channels[0])
}

// DecodeError reports an unreadable, corrupt or unsupported file.
type DecodeError struct {
	Path   string
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == FormatUnknown {
		return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads the whole file at path. Every failure is a *DecodeError.
func Decode(path string) (Decoded, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Decoded{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Decoded{}, &DecodeError{Path: path, Format: format, Err: err}
	}
	defer f.Close()

	var d Decoded
	switch format {
	case FormatWAV:
		d, err = decodeWAV(f)
	case FormatAIFF:
		d, err = decodeAIFF(f)
	case FormatFLAC:
		d, err = decodeFLAC(f)
	case FormatOGG:
		d, err = decodeOGG(f)
	case FormatMP3:
		d, err = decodeMP3(f)
	}
	if err != nil {
		return Decoded{}, &DecodeError{Path: path, Format: format, Err: err}
	}
	d.Format = format

	log.Debugf("decode: %s: %s, %d Hz, %d channel(s), %d frames, %s",
		path, format, d.SampleRate, len(d.Channels), d.Frames(), d.BitDepth)
	return d, nil
}

// deinterleave splits interleaved integer samples into channels, scaling by
// 1/fullScale after subtracting offset. A trailing partial frame is dropped.
func deinterleave(data []int, channels int, fullScale float64, offset int) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = float64(data[i*channels+c]-offset) / fullScale
		}
	}
	return out
}

// deinterleaveFloat is deinterleave for decoders that already produce floats.
func deinterleaveFloat(data []float32, channels int) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = float64(data[i*channels+c])
		}
	}
	return out
}

func bitDepthLabel(bits int) string {
	return fmt.Sprintf("%d-bit", bits)
}

// fullScale is the magnitude of the most negative sample at the given depth.
func fullScale(bits int) float64 {
	return float64(int64(1) << (bits - 1))
}
