package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"soundscope/pkg/bitint"
)

// maxSmoothFactor is the largest prime factor a length may have before the
// mixed-radix FFT is replaced by the chirp-z transform. FFTPACK handles any
// other factor with a generic O(N·p) pass.
const maxSmoothFactor = 13

// isSmooth reports whether n has no prime factor above maxSmoothFactor.
func isSmooth(n int) bool {
	if n <= 1 {
		return true
	}
	for _, p := range []int{2, 3, 5, 7, 11, 13} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}

// realCoefficients returns bins 0..n/2 of the n-point DFT of x for any n.
func realCoefficients(x []float64) []complex128 {
	if isSmooth(len(x)) {
		return fourier.NewFFT(len(x)).Coefficients(nil, x)
	}
	return bluesteinCoefficients(x)
}

// bluesteinCoefficients computes bins 0..n/2 of the exact n-point DFT as a
// circular convolution with a chirp, done by power-of-two FFTs of length
// m >= 2n-1.
func bluesteinCoefficients(x []float64) []complex128 {
	n := len(x)
	m := bitint.NextPowerOfTwo(2*n - 1)

	// chirp[k] = exp(-iπk²/n); k² is reduced mod 2n to keep the phase exact
	// for long inputs.
	chirp := make([]complex128, n)
	twoN := int64(2 * n)
	for k := range chirp {
		kk := int64(k) * int64(k) % twoN
		chirp[k] = cmplx.Rect(1, -math.Pi*float64(kk)/float64(n))
	}

	a := make([]complex128, m)
	for k, v := range x {
		a[k] = complex(v, 0) * chirp[k]
	}
	b := make([]complex128, m)
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		c := cmplx.Conj(chirp[k])
		b[k] = c
		b[m-k] = c
	}

	fft := fourier.NewCmplxFFT(m)
	a = fft.Coefficients(a, a)
	b = fft.Coefficients(b, b)
	for i := range a {
		a[i] *= b[i]
	}
	a = fft.Sequence(a, a)

	out := make([]complex128, n/2+1)
	scale := complex(1/float64(m), 0)
	for k := range out {
		out[k] = a[k] * chirp[k] * scale
	}
	return out
}
