// SPDX-License-Identifier: EPL-2.0

//go:build linux

package device

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/gen2brain/alsa"
)

func init() {
	registerBackend(priorityALSA, "alsa", func() Backend { return &alsaBackend{} })
}

const (
	defaultALSADevice = "hw:0,0"

	// alsaWaitMs bounds how long the worker sleeps before it checks for a
	// break request.
	alsaWaitMs = 10

	// alsaMaxRecoveries is how many back to back failed waits the worker
	// tolerates before it reports the device as lost.
	alsaMaxRecoveries = 5
)

// alsaStream is the part of *alsa.PCM the worker loop drives.
type alsaStream interface {
	Wait(timeoutMs int) (bool, error)
	Prepare() error
	Read(data any) (int, error)
	Write(data any) (int, error)
}

// alsaBackend talks to the kernel PCM interface directly. The worker waits
// for the stream to become ready and then moves one period at a time.
type alsaBackend struct {
	pcm    *alsa.PCM
	stream alsaStream
	buf    []int16
	broken atomic.Bool
}

func (a *alsaBackend) Name() string { return "alsa" }

func (a *alsaBackend) Init(dev *Device) error {
	name := dev.Requested().DeviceID
	if name == "" {
		name = defaultALSADevice
	}

	flags := alsa.PCM_OUT
	if dev.Type() == Capture {
		flags = alsa.PCM_IN
	}

	periods := dev.Periods()
	cfg := &alsa.Config{
		Channels:    uint32(dev.Channels()),
		Rate:        uint32(dev.SampleRate()),
		PeriodSize:  uint32(dev.periodFrames()),
		PeriodCount: uint32(periods),
		Format:      alsa.SNDRV_PCM_FORMAT_S16_LE,
	}

	pcm, err := alsa.PcmOpenByName(name, flags, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %w", ErrApiNotFound, err)
		}
		return err
	}

	if pcm.Format() != alsa.SNDRV_PCM_FORMAT_S16_LE {
		_ = pcm.Close()
		return fmt.Errorf("%w: %s opened as %v", ErrFormatNotSupported, name, pcm.Format())
	}

	a.pcm = pcm
	a.stream = pcm
	dev.setActual(int(pcm.Channels()), int(pcm.Rate()), int(pcm.BufferSize()), int(pcm.PeriodCount()))
	a.buf = make([]int16, int(pcm.PeriodSize())*dev.Channels())

	return nil
}

func (a *alsaBackend) Uninit(*Device) error {
	if a.pcm == nil {
		return nil
	}

	err := a.pcm.Close()
	a.pcm = nil
	a.stream = nil

	return err
}

func (a *alsaBackend) Start(dev *Device) error {
	a.broken.Store(false)

	if err := a.pcm.Prepare(); err != nil {
		return err
	}

	// playback starts by itself once the first period is written
	if dev.Type() == Capture {
		return a.pcm.Start()
	}

	return nil
}

func (a *alsaBackend) Stop(*Device) error {
	if a.pcm == nil || a.pcm.State() != alsa.SNDRV_PCM_STATE_RUNNING {
		return nil
	}

	return a.pcm.Stop()
}

func (a *alsaBackend) MainLoop(dev *Device) error {
	frames := uint32(len(a.buf) / dev.Channels())

	failures := 0
	for !a.broken.Load() {
		ready, err := a.stream.Wait(alsaWaitMs)
		if err != nil {
			failures++
			if failures > alsaMaxRecoveries {
				return fmt.Errorf("wait failed %d times: %w", failures, err)
			}
			if perr := a.stream.Prepare(); perr != nil {
				return fmt.Errorf("recover after %w: %w", err, perr)
			}
			dev.logf("alsa: recovered from %v", err)
			continue
		}
		failures = 0
		if !ready {
			continue
		}

		if dev.Type() == Capture {
			n, err := a.stream.Read(a.buf)
			if err != nil {
				return err
			}
			dev.recv(uint32(n), a.buf[:n*dev.Channels()])
			continue
		}

		dev.send(frames, a.buf)
		if _, err := a.stream.Write(a.buf); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToMapDeviceBuffer, err)
		}
	}

	return nil
}

func (a *alsaBackend) BreakMainLoop(*Device) { a.broken.Store(true) }

func (a *alsaBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	cards, err := alsa.EnumerateCards()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrApiNotFound, err)
	}

	var infos []DeviceInfo
	for _, card := range cards {
		for _, d := range card.Devices {
			if d.IsPlayback != (t == Playback) {
				continue
			}

			id := fmt.Sprintf("hw:%d,%d", card.ID, d.ID)
			infos = append(infos, DeviceInfo{
				ID:      id,
				Name:    fmt.Sprintf("%s: %s", card.Name, d.Name),
				Type:    t,
				Default: id == defaultALSADevice,
			})
		}
	}

	return infos, nil
}
