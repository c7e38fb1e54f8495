package analysis

import (
	"errors"
	"math"
)

var errWaveformPoints = errors.New("waveform points must be positive")

// Waveform is a min/max envelope of a channel, one entry per bucket.
type Waveform struct {
	Times []float64 // bucket start, seconds
	Min   []float64
	Max   []float64
}

// ComputeWaveform reduces channel to at most points buckets. Short channels
// get one bucket per sample.
func ComputeWaveform(channel []float64, sampleRate, points int) (Waveform, error) {
	if len(channel) == 0 {
		return Waveform{}, ErrEmptySignal
	}
	if points < 1 {
		return Waveform{}, errWaveformPoints
	}
	if points > len(channel) {
		points = len(channel)
	}

	w := Waveform{
		Times: make([]float64, points),
		Min:   make([]float64, points),
		Max:   make([]float64, points),
	}
	n := len(channel)
	for b := 0; b < points; b++ {
		start := b * n / points
		end := (b + 1) * n / points
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range channel[start:end] {
			lo = math.Min(lo, s)
			hi = math.Max(hi, s)
		}
		w.Times[b] = float64(start) / float64(sampleRate)
		w.Min[b] = lo
		w.Max[b] = hi
	}
	return w, nil
}
