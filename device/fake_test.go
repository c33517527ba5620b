// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"sync"
)

var errLost = errors.New("device unplugged")

// fakeBackend is a callback-style backend that records what the device
// asked of it.
type fakeBackend struct {
	name string

	mtx      sync.Mutex
	initErr  error
	startErr error
	stopErr  error
	starts   int
	stops    int
	uninits  int
}

func newFake(name string) *fakeBackend { return &fakeBackend{name: name} }

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Init(*Device) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.initErr
}

func (f *fakeBackend) Uninit(*Device) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.uninits++

	return nil
}

func (f *fakeBackend) Start(*Device) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.startErr != nil {
		return f.startErr
	}
	f.starts++

	return nil
}

func (f *fakeBackend) Stop(*Device) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.stops++

	return f.stopErr
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	fn(f)
}

func (f *fakeBackend) counts() (starts, stops, uninits int) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.starts, f.stops, f.uninits
}

// fakeLooper adds a main loop that runs until broken or until a token
// arrives on lose.
type fakeLooper struct {
	*fakeBackend

	breakCh chan struct{}
	lose    chan struct{}
}

func newFakeLooper(name string) *fakeLooper {
	return &fakeLooper{
		fakeBackend: newFake(name),
		breakCh:     make(chan struct{}, 1),
		lose:        make(chan struct{}, 1),
	}
}

func (f *fakeLooper) Start(dev *Device) error {
	select {
	case <-f.breakCh:
	default:
	}

	return f.fakeBackend.Start(dev)
}

func (f *fakeLooper) MainLoop(*Device) error {
	select {
	case <-f.breakCh:
		return nil
	case <-f.lose:
		return errLost
	}
}

func (f *fakeLooper) BreakMainLoop(*Device) {
	select {
	case f.breakCh <- struct{}{}:
	default:
	}
}
