package playback

import "fmt"

// Status is the transport state.
type Status int

const (
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is a snapshot of the transport.
type State struct {
	Status      Status
	Cursor      int // frame index, 0 <= Cursor <= TotalFrames
	TotalFrames int
	Volume      float64
	Dragging    bool // a seek gesture holds the drag lock
	Loaded      bool
}

// Progress is the payload delivered to tick subscribers.
type Progress struct {
	Elapsed     float64 // seconds
	Remaining   float64 // seconds
	Percent     float64 // 0..100
	Cursor      int
	TotalFrames int
}
