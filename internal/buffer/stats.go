package buffer

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes one normalized channel.
type ChannelStats struct {
	Channel int
	Min     float64
	Max     float64
	Mean    float64
	RMS     float64
}

// Stats computes ChannelStats for every channel.
func (b *SampleBuffer) Stats() []ChannelStats {
	out := make([]ChannelStats, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ChannelStats{
			Channel: i,
			Min:     floats.Min(ch),
			Max:     floats.Max(ch),
			Mean:    stat.Mean(ch, nil),
			RMS:     math.Sqrt(floats.Dot(ch, ch) / float64(len(ch))),
		}
	}
	return out
}
