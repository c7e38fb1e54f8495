// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the taper applied to each FFT frame.
type WindowFunc int

const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
	Rectangular
	Tukey
)

// TukeyAlpha is the taper fraction used for the Tukey window.
const TukeyAlpha = 0.25

var windowNames = map[WindowFunc]string{
	BartlettHann:    "BartlettHann",
	Blackman:        "Blackman",
	BlackmanNuttall: "BlackmanNuttall",
	Hann:            "Hann",
	Hamming:         "Hamming",
	Lanczos:         "Lanczos",
	Nuttall:         "Nuttall",
	Rectangular:     "Rectangular",
	Tukey:           "Tukey",
}

func (w WindowFunc) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WindowFunc(%d)", int(w))
}

// ParseWindowFunc converts a case-insensitive name to a WindowFunc. Unknown
// names return Hann together with an error.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	case "rectangular", "boxcar", "none":
		return Rectangular, nil
	case "tukey":
		return Tukey, nil
	default:
		return Hann, fmt.Errorf("unknown window function name: '%s'", name)
	}
}

// windowCoefficients returns n coefficients of wf. A periodic window is the
// symmetric window of length n+1 with the last point dropped, which is what
// FFT-based spectral estimators expect.
//
// Length 1 always yields [1]; the gonum windows divide by n-1. A window that
// degenerates to all zeros (Tukey with n=2) falls back to rectangular so the
// PSD scale never divides by zero.
func windowCoefficients(n int, wf WindowFunc, periodic bool) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}

	m := n
	if periodic {
		m = n + 1
	}
	coeffs := make([]float64, m)
	for i := range coeffs {
		coeffs[i] = 1
	}

	switch wf {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	case Rectangular:
		window.Rectangular(coeffs)
	case Tukey:
		window.Tukey{Alpha: TukeyAlpha}.Transform(coeffs)
	default:
		window.Hann(coeffs)
	}
	coeffs = coeffs[:n]

	var sum float64
	for _, c := range coeffs {
		sum += c * c
	}
	if sum == 0 {
		for i := range coeffs {
			coeffs[i] = 1
		}
	}
	return coeffs
}
