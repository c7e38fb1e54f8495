// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"soundscope/internal/analysis"
	"soundscope/internal/log"
	"soundscope/pkg/bitint"
)

// LoadConfig loads configuration from the YAML file at path. If path is
// empty, "config.yaml" in the working directory is tried and built-in
// defaults are used when it does not exist. Environment overrides are applied
// last, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"config.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every section and normalizes frames_per_buffer to a power
// of two.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not recognized", c.LogLevel))
	}

	p := &c.Playback
	switch strings.ToLower(p.Backend) {
	case BackendPortAudio, BackendOto, BackendNone:
		p.Backend = strings.ToLower(p.Backend)
	default:
		errs = append(errs, fmt.Errorf("playback.backend %q must be one of portaudio, oto, none", p.Backend))
	}
	if p.Device < MinDeviceID {
		errs = append(errs, fmt.Errorf("playback.device must be >= %d", MinDeviceID))
	}
	if p.TickInterval < MinTickInterval {
		errs = append(errs, fmt.Errorf("playback.tick_interval must be at least %s", MinTickInterval))
	}
	if p.Volume < 0 || p.Volume > 1 {
		errs = append(errs, fmt.Errorf("playback.volume %.2f must be within [0,1]", p.Volume))
	}
	if p.FramesPerBuffer <= 0 || p.FramesPerBuffer > MaxBufferFrames {
		errs = append(errs, fmt.Errorf("playback.frames_per_buffer must be within [1,%d]", MaxBufferFrames))
	} else if !bitint.IsPowerOfTwo(p.FramesPerBuffer) {
		p.FramesPerBuffer = bitint.ClampPowerOfTwo(p.FramesPerBuffer, MinBufferFrames, MaxBufferFrames)
	}

	a := &c.Analysis
	if a.WindowSize < 1 || a.WindowSize > MaxAnalysisWindow {
		errs = append(errs, fmt.Errorf("analysis.window_size must be within [1,%d]", MaxAnalysisWindow))
	}
	if a.Overlap < 0 || a.Overlap >= a.WindowSize {
		errs = append(errs, errors.New("analysis.overlap must be >= 0 and smaller than window_size"))
	}
	if _, err := analysis.ParseWindowFunc(a.WindowFunc); err != nil {
		errs = append(errs, fmt.Errorf("analysis.window_func: %w", err))
	}
	if a.WaveformPoints < 1 || a.WaveformPoints > MaxWaveformPoints {
		errs = append(errs, fmt.Errorf("analysis.waveform_points must be within [1,%d]", MaxWaveformPoints))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides applies ENV_* variables on top of the file values.
// Unparseable values are ignored and logged.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
			log.Debugf("configuration: overriding debug from env: %v", b)
		} else {
			log.Warnf("configuration: ignoring ENV_DEBUG=%q", val)
		}
	}

	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}

	if val, ok := os.LookupEnv("ENV_OUTPUT_BACKEND"); ok {
		c.Playback.Backend = val
		log.Debugf("configuration: overriding playback.backend from env: %s", val)
	}

	if val, ok := os.LookupEnv("ENV_TICK_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Playback.TickInterval = d
			log.Debugf("configuration: overriding playback.tick_interval from env: %s", d)
		} else {
			log.Warnf("configuration: ignoring ENV_TICK_INTERVAL=%q", val)
		}
	}

	if val, ok := os.LookupEnv("ENV_VOLUME"); ok {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.Playback.Volume = v
			log.Debugf("configuration: overriding playback.volume from env: %.2f", v)
		} else {
			log.Warnf("configuration: ignoring ENV_VOLUME=%q", val)
		}
	}
}
