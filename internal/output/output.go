// Package output implements the audio devices the playback transport drives.
package output

import (
	"errors"
	"fmt"

	"soundscope/internal/config"
	"soundscope/internal/playback"
)

var ErrClosed = errors.New("output closed")

// New opens the backend named by cfg.Backend.
func New(cfg config.PlaybackConfig) (playback.Output, error) {
	switch cfg.Backend {
	case config.BackendPortAudio:
		return NewPortAudio(PortAudioConfig{
			DeviceID:        cfg.Device,
			FramesPerBuffer: cfg.FramesPerBuffer,
			LowLatency:      cfg.LowLatency,
		})
	case config.BackendOto:
		return NewOto(), nil
	case config.BackendNone:
		return playback.NullOutput{}, nil
	}
	return nil, fmt.Errorf("unknown output backend %q", cfg.Backend)
}
