// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package device

import (
	"encoding/binary"
	"fmt"

	"github.com/gen2brain/malgo"
)

func init() {
	registerBackend(priorityMiniaudio, "miniaudio", func() Backend { return &miniaudioBackend{} })
}

// miniaudioBackend lets miniaudio own the audio thread; frames arrive in
// its data callback.
type miniaudioBackend struct {
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	devices []malgo.DeviceInfo
	scratch []int16
}

func (m *miniaudioBackend) Name() string { return "miniaudio" }

func malgoType(t DeviceType) malgo.DeviceType {
	if t == Capture {
		return malgo.Capture
	}

	return malgo.Playback
}

func (m *miniaudioBackend) Init(dev *Device) error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		dev.logf("miniaudio: %s", msg)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApiNotFound, err)
	}
	m.ctx = ctx

	typ := malgoType(dev.Type())
	cfg := malgo.DefaultDeviceConfig(typ)
	cfg.SampleRate = uint32(dev.SampleRate())
	cfg.PeriodSizeInFrames = uint32(dev.periodFrames())
	cfg.Periods = uint32(dev.Periods())

	sub := malgo.SubConfig{
		Format:   malgo.FormatS16,
		Channels: uint32(dev.Channels()),
	}

	if id := dev.Requested().DeviceID; id != "" {
		m.devices, err = ctx.Devices(typ)
		if err != nil {
			m.free()
			return err
		}
		for i := range m.devices {
			if m.devices[i].Name() == id {
				sub.DeviceID = m.devices[i].ID.Pointer()
				break
			}
		}
	}

	if typ == malgo.Capture {
		cfg.Capture = sub
	} else {
		cfg.Playback = sub
	}

	m.scratch = make([]int16, dev.periodFrames()*dev.Channels())

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, in []byte, frames uint32) {
			m.transfer(dev, out, in, frames)
		},
		Stop: func() {
			dev.lost()
		},
	}

	device, err := malgo.InitDevice(ctx.Context, cfg, callbacks)
	if err != nil {
		m.free()
		return err
	}
	m.device = device

	dev.setActual(0, int(device.SampleRate()), 0, 0)

	return nil
}

// transfer converts between the byte buffers miniaudio hands out and the
// int16 frames the callbacks use.
func (m *miniaudioBackend) transfer(dev *Device, out, in []byte, frames uint32) {
	samples := int(frames) * dev.Channels()
	if cap(m.scratch) < samples {
		m.scratch = make([]int16, samples)
	}
	buf := m.scratch[:samples]

	if dev.Type() == Capture {
		for i := range buf {
			buf[i] = int16(binary.LittleEndian.Uint16(in[i*2:]))
		}
		dev.recv(frames, buf)
		return
	}

	dev.send(frames, buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
}

func (m *miniaudioBackend) free() {
	if m.ctx == nil {
		return
	}

	_ = m.ctx.Uninit()
	m.ctx.Free()
	m.ctx = nil
}

func (m *miniaudioBackend) Uninit(*Device) error {
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}

	m.free()

	return nil
}

func (m *miniaudioBackend) Start(*Device) error { return m.device.Start() }

func (m *miniaudioBackend) Stop(*Device) error {
	if !m.device.IsStarted() {
		return nil
	}

	return m.device.Stop()
}

func (m *miniaudioBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrApiNotFound, err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	devices, err := ctx.Devices(malgoType(t))
	if err != nil {
		return nil, err
	}

	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, DeviceInfo{
			ID:      d.Name(),
			Name:    d.Name(),
			Type:    t,
			Default: d.IsDefault == 1,
		})
	}

	return infos, nil
}
