package playback

import "soundscope/internal/buffer"

// Output is the device the transport hands audio to.
//
// Start begins playing buf from fromFrame at volume; a second Start replaces
// whatever is playing. Stop silences the device and may be called when
// nothing plays. Close releases the device for good. Start and Stop may block
// on device I/O: the transport calls them from its device worker, never while
// holding its own lock.
type Output interface {
	Start(buf *buffer.SampleBuffer, fromFrame int, volume float64) error
	Stop() error
	Close() error
}

// NullOutput discards audio. It backs --output none and headless runs.
type NullOutput struct{}

var _ Output = NullOutput{}

func (NullOutput) Start(*buffer.SampleBuffer, int, float64) error { return nil }
func (NullOutput) Stop() error                                    { return nil }
func (NullOutput) Close() error                                   { return nil }
