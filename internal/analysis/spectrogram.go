// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
)

// Spectrogram is a log-power STFT normalized to [0,1]. Values is indexed
// [time][frequency].
type Spectrogram struct {
	Values      [][]float64
	Times       []float64 // frame centres, seconds
	Frequencies []float64 // Hz
	WindowSize  int
	Hop         int
}

// SpectrogramOptions configures ComputeSpectrogram. The zero value is not
// valid; start from DefaultSpectrogramOptions.
type SpectrogramOptions struct {
	WindowSize int
	Overlap    int
	Window     WindowFunc
}

func DefaultSpectrogramOptions() SpectrogramOptions {
	return SpectrogramOptions{WindowSize: 2048, Overlap: 1024, Window: Hann}
}

func (o SpectrogramOptions) validate() error {
	if o.WindowSize < 1 {
		return fmt.Errorf("%w: window size %d", ErrInvalidWindow, o.WindowSize)
	}
	if o.Overlap < 0 || o.Overlap >= o.WindowSize {
		return fmt.Errorf("%w: overlap %d with window size %d", ErrInvalidWindow, o.Overlap, o.WindowSize)
	}
	return nil
}

// logFloor keeps log10 finite for silent bins.
const logFloor = 1e-10

// ComputeSpectrogram computes the STFT of channel, converts PSD to
// log10(P + 1e-10) and min-max normalizes the whole grid. A grid with no
// spread (silence, DC) normalizes to all zeros.
func ComputeSpectrogram(channel []float64, sampleRate int, opts SpectrogramOptions) (Spectrogram, error) {
	if len(channel) == 0 {
		return Spectrogram{}, ErrEmptySignal
	}
	if err := opts.validate(); err != nil {
		return Spectrogram{}, err
	}

	proc, err := NewFFTProcessor(opts.WindowSize, sampleRate, opts.Window)
	if err != nil {
		return Spectrogram{}, err
	}

	hop := opts.WindowSize - opts.Overlap
	values, times := stft(proc, channel, hop, sampleRate)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for i, p := range row {
			v := math.Log10(p + logFloor)
			row[i] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	span := hi - lo
	for _, row := range values {
		for i, v := range row {
			if span > 0 {
				row[i] = (v - lo) / span
			} else {
				row[i] = 0
			}
		}
	}

	return Spectrogram{
		Values:      values,
		Times:       times,
		Frequencies: proc.Frequencies(),
		WindowSize:  opts.WindowSize,
		Hop:         hop,
	}, nil
}
