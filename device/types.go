// SPDX-License-Identifier: EPL-2.0

package device

import "fmt"

const (
	DefaultBufferSizeMilliseconds = 25
	DefaultPeriods                = 2
	DefaultChannels               = 2
	DefaultSampleRate             = 44100
)

// Format is the sample width class of a stream.
type Format int

const (
	FormatUnknown Format = iota
	FormatS16
)

func (f Format) String() string {
	switch f {
	case FormatS16:
		return "s16"
	default:
		return "unknown"
	}
}

// BytesPerSample of f, or 0 for unknown formats.
func (f Format) BytesPerSample() int {
	if f == FormatS16 {
		return 2
	}

	return 0
}

type DeviceType int

const (
	Playback DeviceType = iota
	Capture
)

func (t DeviceType) String() string {
	switch t {
	case Playback:
		return "playback"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// State of a Device. Exactly one holds at any time.
type State int32

const (
	StateUninitialized State = iota
	StateStopped
	StateStarting
	StateStarted
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateStarted:
		return "started"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config is what the caller asks for. Zero values select defaults; the
// backend reports what it actually opened through the Device accessors.
type Config struct {
	Type       DeviceType
	Format     Format
	Channels   int
	SampleRate int

	// BufferSizeInFrames wins over BufferSizeInMilliseconds when both are set.
	BufferSizeInFrames       int
	BufferSizeInMilliseconds int
	Periods                  int

	// DeviceID selects a backend specific device, such as "hw:1,0" for ALSA
	// or a device name for miniaudio and PortAudio. Empty or unknown IDs
	// open the default device.
	DeviceID string

	UserData any
}

// SendFunc fills out with frameCount interleaved frames and returns how
// many frames it produced. Missing frames are played as silence.
type SendFunc func(dev *Device, frameCount uint32, out []int16) uint32

// RecvFunc receives frameCount captured frames.
type RecvFunc func(dev *Device, frameCount uint32, in []int16)

// StopFunc is called when a backend stops on its own, such as when the
// hardware disappears. It runs on the audio goroutine and must not call
// Start or Stop directly.
type StopFunc func(dev *Device)

// LogFunc receives diagnostic messages. They carry no control flow.
type LogFunc func(dev *Device, msg string)

type Callbacks struct {
	Send SendFunc
	Recv RecvFunc
	Stop StopFunc
	Log  LogFunc
}

// DeviceInfo describes one endpoint reported by a backend.
type DeviceInfo struct {
	ID      string
	Name    string
	Type    DeviceType
	Default bool
}

func (c Config) withDefaults() (Config, error) {
	if c.Type != Playback && c.Type != Capture {
		return c, fmt.Errorf("%w: %v", ErrDeviceTypeNotSupported, c.Type)
	}

	if c.Format == FormatUnknown {
		c.Format = FormatS16
	}
	if c.Format != FormatS16 {
		return c, fmt.Errorf("%w: %v", ErrFormatNotSupported, c.Format)
	}

	if c.Channels < 0 || c.SampleRate < 0 || c.BufferSizeInFrames < 0 ||
		c.BufferSizeInMilliseconds < 0 || c.Periods < 0 {
		return c, fmt.Errorf("%w: negative device parameter", ErrInvalidArgument)
	}

	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Periods == 0 {
		c.Periods = DefaultPeriods
	}

	if c.BufferSizeInFrames == 0 {
		ms := c.BufferSizeInMilliseconds
		if ms == 0 {
			ms = DefaultBufferSizeMilliseconds
		}
		c.BufferSizeInFrames = max(c.SampleRate*ms/1000, c.Periods)
	}

	return c, nil
}
