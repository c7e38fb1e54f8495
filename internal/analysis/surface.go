// SPDX-License-Identifier: MIT
package analysis

import "math"

// Surface3D is a dB-scaled spectrogram for 3-D rendering. Values is indexed
// [time][frequency].
type Surface3D struct {
	Values      [][]float64
	Times       []float64
	Frequencies []float64
	WindowSize  int
}

// SurfaceWindowSize is the adaptive segment length for a channel of n
// frames: max(1, min(2048, n/10)).
func SurfaceWindowSize(n int) int {
	w := n / 10
	if w > 2048 {
		w = 2048
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ComputeSurface3D computes a Tukey-windowed, mean-detrended PSD with an
// overlap of one eighth of the window and converts it to 10·log10(P + 1e-10).
// Short inputs shrink the window, so every finite input gives finite output.
func ComputeSurface3D(channel []float64, sampleRate int) (Surface3D, error) {
	if len(channel) == 0 {
		return Surface3D{}, ErrEmptySignal
	}

	size := SurfaceWindowSize(len(channel))
	proc, err := NewFFTProcessor(size, sampleRate, Tukey, WithPeriodicWindow(), WithDetrend())
	if err != nil {
		return Surface3D{}, err
	}

	hop := size - size/8
	values, times := stft(proc, channel, hop, sampleRate)
	for _, row := range values {
		for i, p := range row {
			row[i] = 10 * math.Log10(p+logFloor)
		}
	}

	return Surface3D{
		Values:      values,
		Times:       times,
		Frequencies: proc.Frequencies(),
		WindowSize:  size,
	}, nil
}
