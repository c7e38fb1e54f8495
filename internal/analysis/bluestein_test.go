package analysis

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/pkg/utils"
)

// directDFT is the O(N²) reference for bins 0..n/2.
func directDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n/2+1)
	for k := range out {
		var sum complex128
		for j, v := range x {
			phase := -2 * math.Pi * float64(int64(j)*int64(k)%int64(n)) / float64(n)
			sum += complex(v, 0) * cmplx.Rect(1, phase)
		}
		out[k] = sum
	}
	return out
}

func TestIsSmooth(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{1, true},
		{2, true},
		{1024, true},
		{44100, true},
		{3 * 13 * 13, true},
		{17, false},
		{1009, false},
		{2 * 1048573, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSmooth(tt.n), "n=%d", tt.n)
	}
}

func TestBluesteinMatchesDirectDFT(t *testing.T) {
	for _, n := range []int{17, 1009, 2 * 1021, 3 * 331} {
		x := randomSignal(n, int64(n))
		want := directDFT(x)
		got := bluesteinCoefficients(x)
		require.Len(t, got, len(want), "n=%d", n)
		for k := range want {
			assert.InDelta(t, real(want[k]), real(got[k]), 1e-7*float64(n), "n=%d bin %d", n, k)
			assert.InDelta(t, imag(want[k]), imag(got[k]), 1e-7*float64(n), "n=%d bin %d", n, k)
		}
	}
}

func TestComputeSpectrumPrimeLength(t *testing.T) {
	const (
		n    = 4099
		rate = 44100
	)
	x := utils.SineWave(n, rate, 1000, 0.5)
	for i := range x {
		x[i] += 0.1
	}
	want := directDFT(x)

	s, err := ComputeSpectrum(x, rate)
	require.NoError(t, err)
	require.Len(t, s.Bins, n/2+1)

	assert.InDelta(t, cmplx.Abs(want[0]), s.Bins[0].Magnitude, 1e-6)
	wantPeak := utils.FindPeakBin(magnitudes(want), 1, len(want)-1)
	peak := s.Peak()
	assert.Equal(t, float64(wantPeak)*rate/n, peak.Frequency)
	assert.InDelta(t, 1000, peak.Frequency, s.Resolution())
	assert.InDelta(t, cmplx.Abs(want[wantPeak]), peak.Magnitude, 1e-6)
}

func TestComputeSpectrumLargePrimeLength(t *testing.T) {
	if testing.Short() {
		t.Skip("long input")
	}
	const n = 1048573 // prime
	x := utils.SineWave(n, 44100, 440, 0.5)

	s, err := ComputeSpectrum(x, 44100)
	require.NoError(t, err)
	assert.Len(t, s.Bins, n/2+1)
	assert.InDelta(t, 440, s.Peak().Frequency, s.Resolution())
}

func magnitudes(c []complex128) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = cmplx.Abs(v)
	}
	return out
}
