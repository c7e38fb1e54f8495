package analysis

import "math"

// FrequencyBand is a named frequency range. A zero HighHz means "up to
// Nyquist".
type FrequencyBand struct {
	Name   string
	LowHz  float64
	HighHz float64
}

// DefaultBands is the six-way split used by the info view.
var DefaultBands = []FrequencyBand{
	{Name: "sub", LowHz: 20, HighHz: 60},
	{Name: "bass", LowHz: 60, HighHz: 250},
	{Name: "lowMid", LowHz: 250, HighHz: 500},
	{Name: "mid", LowHz: 500, HighHz: 2000},
	{Name: "highMid", LowHz: 2000, HighHz: 4000},
	{Name: "treble", LowHz: 4000},
}

// BandEnergy is the energy of one band of a Spectrum.
type BandEnergy struct {
	FrequencyBand
	Energy float64 // mean |X_k|^2 over the band's bins
	Level  float64 // RMS magnitude scaled to a full-scale sine, clamped to [0,1]
	Bins   int
}

// BandEnergies splits s into bands. Bins below the lowest band are ignored.
func BandEnergies(s Spectrum, bands []FrequencyBand) []BandEnergy {
	if bands == nil {
		bands = DefaultBands
	}
	nyquist := float64(s.SampleRate) / 2

	out := make([]BandEnergy, len(bands))
	for i, b := range bands {
		if b.HighHz <= 0 {
			b.HighHz = nyquist
		}
		out[i].FrequencyBand = b
	}

	for _, bin := range s.Bins {
		for i := range out {
			band := &out[i]
			// The last band is closed so the Nyquist bin is counted.
			inside := bin.Frequency >= band.LowHz &&
				(bin.Frequency < band.HighHz || (i == len(out)-1 && bin.Frequency == band.HighHz))
			if inside {
				band.Energy += bin.Magnitude * bin.Magnitude
				band.Bins++
				break
			}
		}
	}

	// A full-scale sine of length N has a peak magnitude of N/2.
	full := float64(s.Size) / 2
	for i := range out {
		if out[i].Bins == 0 {
			continue
		}
		out[i].Energy /= float64(out[i].Bins)
		if full > 0 {
			out[i].Level = math.Min(1, math.Sqrt(out[i].Energy)/full)
		}
	}
	return out
}
