// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"time"
)

func init() {
	registerBackend(priorityNull, "null", func() Backend { return newNullBackend() })
}

// nullBackend paces the callbacks with a ticker and discards the output.
// It keeps one buffer of frames queued ahead of a virtual play position,
// which is what Rewind takes back.
type nullBackend struct {
	buf     []int16
	breakCh chan struct{}

	written uint64
	played  uint64
	mtx     *sync.Mutex
}

func newNullBackend() *nullBackend {
	return &nullBackend{
		breakCh: make(chan struct{}, 1),
		mtx:     &sync.Mutex{},
	}
}

func (n *nullBackend) Name() string { return "null" }

func (n *nullBackend) Init(dev *Device) error {
	n.buf = make([]int16, dev.periodFrames()*dev.Channels())
	return nil
}

func (n *nullBackend) Uninit(*Device) error { return nil }

func (n *nullBackend) Start(*Device) error {
	select {
	case <-n.breakCh:
	default:
	}

	n.mtx.Lock()
	n.written, n.played = 0, 0
	n.mtx.Unlock()

	return nil
}

func (n *nullBackend) Stop(*Device) error { return nil }

func (n *nullBackend) MainLoop(dev *Device) error {
	period := uint64(dev.periodFrames())
	interval := time.Duration(period) * time.Second / time.Duration(dev.SampleRate())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n.fill(dev)

	for {
		select {
		case <-n.breakCh:
			return nil
		case <-ticker.C:
			n.mtx.Lock()
			n.played = min(n.played+period, n.written)
			n.mtx.Unlock()

			n.fill(dev)
		}
	}
}

func (n *nullBackend) fill(dev *Device) {
	period := uint64(dev.periodFrames())
	target := uint64(dev.BufferSizeInFrames())

	for {
		n.mtx.Lock()
		ahead := n.written - n.played
		n.mtx.Unlock()

		if ahead >= target {
			return
		}

		frames := min(period, target-ahead)
		buf := n.buf[:int(frames)*dev.Channels()]

		if dev.Type() == Capture {
			clear(buf)
			dev.recv(uint32(frames), buf)
		} else {
			dev.send(uint32(frames), buf)
		}

		n.mtx.Lock()
		n.written += frames
		n.mtx.Unlock()
	}
}

func (n *nullBackend) BreakMainLoop(*Device) {
	select {
	case n.breakCh <- struct{}{}:
	default:
	}
}

func (n *nullBackend) AvailableRewindFrames(*Device) uint32 {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	return uint32(n.written - n.played)
}

func (n *nullBackend) Rewind(_ *Device, frames uint32) uint32 {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	r := min(uint64(frames), n.written-n.played)
	n.written -= r

	return uint32(r)
}

func (n *nullBackend) Devices(t DeviceType) ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "null", Name: "Null Device", Type: t, Default: true}}, nil
}
