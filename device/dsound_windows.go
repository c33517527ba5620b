// SPDX-License-Identifier: EPL-2.0

//go:build windows

package device

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gonutz/mixer/dsound"
)

func init() {
	registerBackend(priorityDSound, "dsound", func() Backend { return newDSoundBackend() })
}

// DirectSound keeps one package-level secondary buffer, so only one device
// may own it at a time.
var dsoundRuntime = &runtimeRef{
	exclusive: true,
	teardown: func() error {
		dsound.Close()
		return nil
	},
}

// dsoundFrameBytes is the stride of the shared buffer: two channels of
// 16-bit samples.
const (
	dsoundChannels   = 2
	dsoundFrameBytes = dsoundChannels * 2
)

// dsoundBackend polls the play and write cursors of the shared ring buffer
// and keeps one device buffer of audio queued ahead of the write cursor.
type dsoundBackend struct {
	writeOffset uint
	queued      uint
	scratch     []int16
	bytes       []byte
	broken      atomic.Bool

	mtx *sync.Mutex
}

func newDSoundBackend() *dsoundBackend {
	return &dsoundBackend{mtx: &sync.Mutex{}}
}

func (s *dsoundBackend) Name() string { return "dsound" }

func (s *dsoundBackend) Init(dev *Device) error {
	if dev.Type() != Playback {
		return fmt.Errorf("%w: dsound is playback only", ErrDeviceTypeNotSupported)
	}
	if dev.Channels() != dsoundChannels {
		return fmt.Errorf("%w: dsound needs %d channels", ErrFormatNotSupported, dsoundChannels)
	}

	rate := dev.SampleRate()
	err := dsoundRuntime.acquire(func() error {
		if err := dsound.Init(rate); err != nil {
			return fmt.Errorf("%w: %w", ErrApiNotFound, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ring := int(dsound.BufferSize()) / dsoundFrameBytes
	frames := min(dev.BufferSizeInFrames(), ring/2)
	dev.setActual(dsoundChannels, rate, frames, 0)

	s.scratch = make([]int16, frames*dsoundChannels)
	s.bytes = make([]byte, frames*dsoundFrameBytes)

	return nil
}

func (s *dsoundBackend) Uninit(*Device) error {
	return dsoundRuntime.release()
}

func (s *dsoundBackend) Start(*Device) error {
	s.broken.Store(false)

	_, write, err := dsound.GetPlayAndWriteCursors()
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.writeOffset = write
	s.queued = 0
	s.mtx.Unlock()

	return dsound.StartSound()
}

func (s *dsoundBackend) Stop(*Device) error {
	dsound.StopSound()
	return nil
}

func (s *dsoundBackend) MainLoop(dev *Device) error {
	interval := time.Duration(dev.periodFrames()) * time.Second / time.Duration(dev.SampleRate()) / 2
	pulse := time.NewTicker(max(interval, time.Millisecond))
	defer pulse.Stop()

	for !s.broken.Load() {
		if err := s.update(dev); err != nil {
			return err
		}
		<-pulse.C
	}

	return nil
}

// update tops the queue back up to one device buffer ahead of the write
// cursor.
func (s *dsoundBackend) update(dev *Device) error {
	_, write, err := dsound.GetPlayAndWriteCursors()
	if err != nil {
		return err
	}

	s.mtx.Lock()
	ahead := s.ahead(write)
	if ahead > s.queued {
		// the write cursor overtook us
		s.writeOffset = write
		ahead = 0
	}
	s.queued = ahead

	target := uint(dev.BufferSizeInFrames() * dsoundFrameBytes)
	if ahead >= target {
		s.mtx.Unlock()
		return nil
	}
	need := (target - ahead) / dsoundFrameBytes
	offset := s.writeOffset
	s.mtx.Unlock()

	out := s.scratch[:need*dsoundChannels]
	dev.send(uint32(need), out)

	buf := s.bytes[:need*dsoundFrameBytes]
	for i, v := range out {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}

	if err := dsound.WriteToSoundBuffer(buf, offset); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToMapDeviceBuffer, err)
	}

	s.mtx.Lock()
	s.writeOffset = (offset + uint(len(buf))) % dsound.BufferSize()
	s.queued += uint(len(buf))
	s.mtx.Unlock()

	return nil
}

func (s *dsoundBackend) ahead(write uint) uint {
	size := dsound.BufferSize()
	return (s.writeOffset + size - write) % size
}

func (s *dsoundBackend) BreakMainLoop(*Device) { s.broken.Store(true) }

func (s *dsoundBackend) AvailableRewindFrames(*Device) uint32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return uint32(s.queued / dsoundFrameBytes)
}

func (s *dsoundBackend) Rewind(_ *Device, frames uint32) uint32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := min(uint(frames), s.queued/dsoundFrameBytes)
	size := dsound.BufferSize()
	s.writeOffset = (s.writeOffset + size - n*dsoundFrameBytes) % size
	s.queued -= n * dsoundFrameBytes

	return uint32(n)
}

func (s *dsoundBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	if t != Playback {
		return nil, nil
	}

	return []DeviceInfo{{ID: "primary", Name: "Primary Sound Driver", Type: Playback, Default: true}}, nil
}
