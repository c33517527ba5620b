// SPDX-License-Identifier: EPL-2.0

//go:build !linux || cgo

package device

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	registerBackend(priorityOto, "oto", func() Backend { return &otoBackend{} })
}

// oto allows one context per process and cannot close it, so the last
// release only suspends it. The first device fixes its format.
var (
	otoCtx      *oto.Context
	otoRate     int
	otoChannels int

	otoRuntime = &runtimeRef{
		teardown: func() error { return otoCtx.Suspend() },
	}
)

func otoSetup(rate, channels int, buffer time.Duration) func() error {
	return func() error {
		if otoCtx != nil {
			return otoCtx.Resume()
		}

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   buffer,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrApiNotFound, err)
		}
		<-ready

		otoCtx, otoRate, otoChannels = ctx, rate, channels

		return nil
	}
}

// otoBackend hands oto a reader; oto's own goroutine pulls frames from it
// whenever its queue runs low.
type otoBackend struct {
	player  *oto.Player
	scratch []int16
	dev     *Device
}

func (o *otoBackend) Name() string { return "oto" }

func (o *otoBackend) Init(dev *Device) error {
	if dev.Type() != Playback {
		return fmt.Errorf("%w: oto is playback only", ErrDeviceTypeNotSupported)
	}

	buffer := time.Duration(dev.BufferSizeInFrames()) * time.Second / time.Duration(dev.SampleRate())
	if err := otoRuntime.acquire(otoSetup(dev.SampleRate(), dev.Channels(), buffer)); err != nil {
		return err
	}

	if otoRate != dev.SampleRate() || otoChannels != dev.Channels() {
		_ = otoRuntime.release()
		return fmt.Errorf("%w: oto already runs at %d Hz with %d channels",
			ErrFormatNotSupported, otoRate, otoChannels)
	}

	o.dev = dev
	o.scratch = make([]int16, dev.BufferSizeInFrames()*dev.Channels())
	o.player = otoCtx.NewPlayer(o)
	o.player.SetBufferSize(dev.BufferSizeInFrames() * dev.Channels() * 2)

	return nil
}

// Read renders whole frames into p as little-endian 16-bit samples.
func (o *otoBackend) Read(p []byte) (int, error) {
	channels := o.dev.Channels()
	frames := len(p) / (channels * 2)
	if frames == 0 {
		return 0, nil
	}

	samples := frames * channels
	if cap(o.scratch) < samples {
		o.scratch = make([]int16, samples)
	}
	buf := o.scratch[:samples]

	o.dev.send(uint32(frames), buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}

	return samples * 2, nil
}

func (o *otoBackend) Uninit(*Device) error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return err
		}
		o.player = nil
	}

	return otoRuntime.release()
}

func (o *otoBackend) Start(*Device) error {
	o.player.Play()
	return otoCtx.Err()
}

func (o *otoBackend) Stop(*Device) error {
	o.player.Pause()
	return nil
}

// Devices reports the system default output; oto cannot pick another.
func (o *otoBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	if t != Playback {
		return nil, nil
	}

	return []DeviceInfo{{ID: "default", Name: "System default output", Type: Playback, Default: true}}, nil
}
