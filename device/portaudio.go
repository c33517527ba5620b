// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

func init() {
	registerBackend(priorityPortAudio, "portaudio", func() Backend { return &portaudioBackend{} })
}

var portaudioRuntime = &runtimeRef{teardown: portaudio.Terminate}

func initPortAudio() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %w", ErrApiNotFound, err)
	}

	return nil
}

// portaudioBackend opens a callback stream; PortAudio owns the audio
// thread.
type portaudioBackend struct {
	stream *portaudio.Stream
}

func (p *portaudioBackend) Name() string { return "portaudio" }

func (p *portaudioBackend) Init(dev *Device) error {
	if err := portaudioRuntime.acquire(initPortAudio); err != nil {
		return err
	}

	info, err := p.endpoint(dev)
	if err != nil {
		_ = portaudioRuntime.release()
		return err
	}

	var (
		params   portaudio.StreamParameters
		callback any
	)

	if dev.Type() == Capture {
		params = portaudio.LowLatencyParameters(info, nil)
		params.Input.Channels = dev.Channels()
		callback = func(in []int16) {
			dev.recv(uint32(len(in)/dev.Channels()), in)
		}
	} else {
		params = portaudio.LowLatencyParameters(nil, info)
		params.Output.Channels = dev.Channels()
		callback = func(out []int16) {
			dev.send(uint32(len(out)/dev.Channels()), out)
		}
	}
	params.SampleRate = float64(dev.SampleRate())
	params.FramesPerBuffer = dev.periodFrames()

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		_ = portaudioRuntime.release()
		return err
	}
	p.stream = stream

	dev.logf("portaudio: opened %q", info.Name)

	return nil
}

func (p *portaudioBackend) endpoint(dev *Device) (*portaudio.DeviceInfo, error) {
	if id := dev.Requested().DeviceID; id != "" {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		for _, d := range devices {
			if d.Name == id {
				return d, nil
			}
		}
		dev.logf("portaudio: no device named %q, using the default", id)
	}

	if dev.Type() == Capture {
		return portaudio.DefaultInputDevice()
	}

	return portaudio.DefaultOutputDevice()
}

func (p *portaudioBackend) Uninit(*Device) error {
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}

	return portaudioRuntime.release()
}

func (p *portaudioBackend) Start(*Device) error { return p.stream.Start() }

func (p *portaudioBackend) Stop(*Device) error { return p.stream.Stop() }

func (p *portaudioBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	if err := portaudioRuntime.acquire(initPortAudio); err != nil {
		return nil, err
	}
	defer func() { _ = portaudioRuntime.release() }()

	var def *portaudio.DeviceInfo
	if t == Capture {
		def, _ = portaudio.DefaultInputDevice()
	} else {
		def, _ = portaudio.DefaultOutputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	var infos []DeviceInfo
	for _, d := range devices {
		if t == Capture && d.MaxInputChannels == 0 || t == Playback && d.MaxOutputChannels == 0 {
			continue
		}

		infos = append(infos, DeviceInfo{
			ID:      d.Name,
			Name:    d.Name,
			Type:    t,
			Default: def != nil && d.Name == def.Name,
		})
	}

	return infos, nil
}
