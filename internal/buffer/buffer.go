// SPDX-License-Identifier: MIT

// Package buffer holds the decoded, peak-normalized sample store shared by
// the analysis and playback packages.
package buffer

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidAudio is returned by Load for a non-positive sample rate,
	// an empty or ragged channel set, or zero samples.
	ErrInvalidAudio = errors.New("invalid audio")
	// ErrChannelIndex is returned for a channel index outside the buffer.
	ErrChannelIndex = errors.New("channel index out of range")
)

// Info is descriptive metadata attached by the loader.
type Info struct {
	Format   string // container label, e.g. "WAV"
	BitDepth string // e.g. "16-bit", or "n/a" for compressed formats
}

// SampleBuffer is an immutable set of equal-length channels normalized to
// [-1, 1]. It is safe for concurrent readers.
type SampleBuffer struct {
	sampleRate int
	channels   [][]float64
	frames     int
	info       Info
}

// Load copies decoded samples into a new SampleBuffer and normalizes them
// by the peak absolute value across all channels. A silent input stays
// all-zero.
func Load(decoded [][]float64, sampleRate int) (*SampleBuffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, sampleRate)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidAudio)
	}

	frames := len(decoded[0])
	for i, ch := range decoded {
		if len(ch) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidAudio, i, len(ch), frames)
		}
	}
	if frames == 0 {
		return nil, fmt.Errorf("%w: zero samples", ErrInvalidAudio)
	}

	var peak float64
	for _, ch := range decoded {
		for _, s := range ch {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return nil, fmt.Errorf("%w: non-finite sample", ErrInvalidAudio)
			}
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}

	channels := make([][]float64, len(decoded))
	for i, ch := range decoded {
		out := make([]float64, frames)
		if peak > 0 {
			for j, s := range ch {
				out[j] = s / peak
			}
		}
		channels[i] = out
	}

	return &SampleBuffer{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		info:       Info{Format: "PCM", BitDepth: "n/a"},
	}, nil
}

// WithInfo returns a buffer sharing the same samples with info attached.
func (b *SampleBuffer) WithInfo(info Info) *SampleBuffer {
	cp := *b
	cp.info = info
	return &cp
}

func (b *SampleBuffer) Info() Info { return b.info }

func (b *SampleBuffer) SampleRate() int { return b.sampleRate }

func (b *SampleBuffer) ChannelCount() int { return len(b.channels) }

// Frames returns the per-channel sample count.
func (b *SampleBuffer) Frames() int { return b.frames }

// Duration is the playing time of the buffer.
func (b *SampleBuffer) Duration() time.Duration {
	return time.Duration(float64(b.frames) / float64(b.sampleRate) * float64(time.Second))
}

// Seconds is Duration as a float, the unit the transport reports in.
func (b *SampleBuffer) Seconds() float64 {
	return float64(b.frames) / float64(b.sampleRate)
}

// Channel returns the samples of channel i. The slice is shared and must not
// be modified; use CopyChannel for a private copy.
func (b *SampleBuffer) Channel(i int) ([]float64, error) {
	if i < 0 || i >= len(b.channels) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrChannelIndex, i, len(b.channels))
	}
	return b.channels[i], nil
}

// CopyChannel returns a copy of channel i.
func (b *SampleBuffer) CopyChannel(i int) ([]float64, error) {
	ch, err := b.Channel(i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ch))
	copy(out, ch)
	return out, nil
}

// Layout returns a human readable channel layout label.
func (b *SampleBuffer) Layout() string {
	return ChannelLayout(len(b.channels))
}

// ChannelLayout names a channel count.
func ChannelLayout(n int) string {
	switch n {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%d channels", n)
	}
}
