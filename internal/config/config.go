package config

import "time"

// Defaults and limits for the playback and analysis settings.
const (
	DefaultLogLevel        = "info"
	DefaultBackend         = BackendPortAudio
	DefaultDeviceID        = MinDeviceID
	DefaultTickInterval    = 100 * time.Millisecond
	DefaultVolume          = 1.0
	DefaultFramesPerBuffer = 512
	DefaultLowLatency      = false

	DefaultWindowSize     = 2048
	DefaultOverlap        = 1024
	DefaultWindowFunc     = "Hann"
	DefaultWaveformPoints = 512

	MinDeviceID       = -1 // system default device
	MinTickInterval   = 10 * time.Millisecond
	MinBufferFrames   = 64
	MaxBufferFrames   = 8192
	MaxWaveformPoints = 1 << 16
	MaxAnalysisWindow = 1 << 16
)

// Output backends.
const (
	BackendPortAudio = "portaudio"
	BackendOto       = "oto"
	BackendNone      = "none"
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	Debug    bool           `yaml:"debug"`
	LogLevel string         `yaml:"log_level"`
	Playback PlaybackConfig `yaml:"playback"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// PlaybackConfig holds the transport and output device settings.
type PlaybackConfig struct {
	Backend         string        `yaml:"backend"`           // portaudio, oto or none
	Device          int           `yaml:"device"`            // PortAudio device index (-1 for default)
	TickInterval    time.Duration `yaml:"tick_interval"`     // position clock period
	Volume          float64       `yaml:"volume"`            // initial volume in [0,1]
	FramesPerBuffer int           `yaml:"frames_per_buffer"` // rounded up to a power of two
	LowLatency      bool          `yaml:"low_latency"`
}

// AnalysisConfig holds the defaults used by the spectral views.
type AnalysisConfig struct {
	WindowSize     int    `yaml:"window_size"`
	Overlap        int    `yaml:"overlap"`
	WindowFunc     string `yaml:"window_func"`
	WaveformPoints int    `yaml:"waveform_points"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Playback: PlaybackConfig{
			Backend:         DefaultBackend,
			Device:          DefaultDeviceID,
			TickInterval:    DefaultTickInterval,
			Volume:          DefaultVolume,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
		Analysis: AnalysisConfig{
			WindowSize:     DefaultWindowSize,
			Overlap:        DefaultOverlap,
			WindowFunc:     DefaultWindowFunc,
			WaveformPoints: DefaultWaveformPoints,
		},
	}
}
