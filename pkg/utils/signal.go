// Package utils has small signal helpers shared by the analysis code and by
// tests that need deterministic input.
package utils

import "math"

// SineWave returns size samples of a sine at frequency Hz with peak amplitude amp.
func SineWave(size int, sampleRate, frequency, amp float64) []float64 {
	buf := make([]float64, size)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = amp * math.Sin(2*math.Pi*frequency*t)
	}
	return buf
}

// ComplexWave is a 440 Hz fundamental with its second and third harmonics.
func ComplexWave(size int, sampleRate float64) []float64 {
	buf := make([]float64, size)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = 0.5*math.Sin(2*math.Pi*440*t) +
			0.3*math.Sin(2*math.Pi*880*t) +
			0.2*math.Sin(2*math.Pi*1320*t)
	}
	return buf
}

// Impulse returns a unit impulse at index at.
func Impulse(size, at int) []float64 {
	buf := make([]float64, size)
	if at >= 0 && at < size {
		buf[at] = 1
	}
	return buf
}

// FindPeakBin returns the index of the largest value in
// magnitudes[startBin:endBin+1]. The range is clipped to the slice; an empty
// slice returns 0.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}
	if startBin > endBin {
		return startBin
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
