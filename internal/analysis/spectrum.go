// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math/cmplx"
	"sort"

	"soundscope/pkg/utils"
)

// Bin is one point of a magnitude spectrum.
type Bin struct {
	Frequency float64 // Hz
	Magnitude float64 // |X_k|, unnormalized
}

// Spectrum is the magnitude spectrum of a whole channel, bins 0..N/2.
type Spectrum struct {
	Bins       []Bin
	SampleRate int
	Size       int // N, the number of input samples
}

// Resolution is the bin spacing in Hz.
func (s Spectrum) Resolution() float64 {
	if s.Size == 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.Size)
}

// Magnitudes returns the magnitude column.
func (s Spectrum) Magnitudes() []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Magnitude
	}
	return out
}

// Peak returns the strongest bin, ignoring DC when there is anything else.
func (s Spectrum) Peak() Bin {
	if len(s.Bins) == 0 {
		return Bin{}
	}
	start := 1
	if len(s.Bins) == 1 {
		start = 0
	}
	return s.Bins[utils.FindPeakBin(s.Magnitudes(), start, len(s.Bins)-1)]
}

// Top returns the k strongest bins ordered by descending magnitude.
func (s Spectrum) Top(k int) []Bin {
	if k <= 0 {
		return nil
	}
	sorted := make([]Bin, len(s.Bins))
	copy(sorted, s.Bins)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Magnitude > sorted[j].Magnitude
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// ComputeSpectrum runs a real DFT over the full channel. Long recordings are
// not truncated; any length is accepted, and lengths with large prime factors
// go through the chirp-z transform so the cost stays O(N log N).
func ComputeSpectrum(channel []float64, sampleRate int) (Spectrum, error) {
	if len(channel) == 0 {
		return Spectrum{}, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	n := len(channel)
	coeffs := realCoefficients(channel)

	bins := make([]Bin, len(coeffs))
	for k, c := range coeffs {
		bins[k] = Bin{
			Frequency: float64(k) * float64(sampleRate) / float64(n),
			Magnitude: cmplx.Abs(c),
		}
	}
	return Spectrum{Bins: bins, SampleRate: sampleRate, Size: n}, nil
}
