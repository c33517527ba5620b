// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of a retromix engine.
//
//	device:
//	  backends: [alsa, "null"]
//	  sample_rate: 48000
//	  buffer_ms: 20
//	  alsa: {card: 1, device: 0}
//	groups:
//	  music: 0.6
//	log:
//	  level: debug
//
// Keys left out keep the values of Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ik5/retromix/device"
	"github.com/ik5/retromix/internal/logging"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Device DeviceConfig `yaml:"device"`
	Groups GroupsConfig `yaml:"groups"`
	Log    LogConfig    `yaml:"log"`
}

type DeviceConfig struct {
	// Backends in try-order. Empty means the compiled defaults.
	Backends     []string   `yaml:"backends,omitempty"`
	Channels     int        `yaml:"channels"`
	SampleRate   int        `yaml:"sample_rate"`
	BufferFrames int        `yaml:"buffer_frames"`
	BufferMs     int        `yaml:"buffer_ms"`
	Periods      int        `yaml:"periods"`
	ALSA         ALSAConfig `yaml:"alsa"`
}

type ALSAConfig struct {
	Card   int `yaml:"card"`
	Device int `yaml:"device"`
}

// GroupsConfig holds the initial linear volume of each sound group.
type GroupsConfig struct {
	Master  float64 `yaml:"master"`
	Effects float64 `yaml:"effects"`
	Music   float64 `yaml:"music"`
	Voice   float64 `yaml:"voice"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given: stereo
// 16-bit at 44100 Hz with automatic buffer sizing, every group at full
// volume.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Channels:   device.DefaultChannels,
			SampleRate: device.DefaultSampleRate,
		},
		Groups: GroupsConfig{
			Master:  1,
			Effects: 1,
			Music:   1,
			Voice:   1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	d := c.Device
	for name, v := range map[string]int{
		"device.channels":      d.Channels,
		"device.sample_rate":   d.SampleRate,
		"device.buffer_frames": d.BufferFrames,
		"device.buffer_ms":     d.BufferMs,
		"device.periods":       d.Periods,
		"device.alsa.card":     d.ALSA.Card,
		"device.alsa.device":   d.ALSA.Device,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	for i, name := range d.Backends {
		if name == "" {
			errs = append(errs, fmt.Errorf("device.backends[%d] is empty", i))
			continue
		}
		if slices.Index(d.Backends, name) != i {
			errs = append(errs, fmt.Errorf("device.backends lists %q twice", name))
		}
	}

	g := c.Groups
	for name, v := range map[string]float64{
		"groups.master":  g.Master,
		"groups.effects": g.Effects,
		"groups.music":   g.Music,
		"groups.voice":   g.Voice,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", name, v))
		}
	}

	if err := logging.Validate(c.LogOptions()); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// DeviceID returns the ALSA hardware name, such as "hw:1,0".
func (a ALSAConfig) DeviceID() string {
	return fmt.Sprintf("hw:%d,%d", a.Card, a.Device)
}

// ToDevice converts the device section to a playback device.Config.
func (d DeviceConfig) ToDevice() device.Config {
	return device.Config{
		Type:                     device.Playback,
		Format:                   device.FormatS16,
		Channels:                 d.Channels,
		SampleRate:               d.SampleRate,
		BufferSizeInFrames:       d.BufferFrames,
		BufferSizeInMilliseconds: d.BufferMs,
		Periods:                  d.Periods,
		DeviceID:                 d.ALSA.DeviceID(),
	}
}

// LogOptions converts the log section to logging.Options.
func (c Config) LogOptions() logging.Options {
	return logging.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}
