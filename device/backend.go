// SPDX-License-Identifier: EPL-2.0

package device

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Backend opens and drives one OS stream. A Backend value belongs to exactly
// one Device; DefaultBackends and NewBackend return fresh values.
//
// Init may lower the requested parameters; it records what it actually
// opened on dev (see Device.setActual). Stop must tolerate being called on a
// stream that is not running.
type Backend interface {
	Name() string
	Init(dev *Device) error
	Uninit(dev *Device) error
	Start(dev *Device) error
	Stop(dev *Device) error
}

// Looper is implemented by backends that need a dedicated worker. MainLoop
// runs on the device worker until BreakMainLoop is called or the stream
// fails. Break requests are cleared by Start, never by MainLoop.
type Looper interface {
	MainLoop(dev *Device) error
	BreakMainLoop(dev *Device)
}

// Rewinder is implemented by playback backends that can take back frames
// already handed to the hardware but not yet played.
type Rewinder interface {
	AvailableRewindFrames(dev *Device) uint32
	Rewind(dev *Device, frames uint32) uint32
}

// Enumerator lists the endpoints a backend can open.
type Enumerator interface {
	Devices(t DeviceType) ([]DeviceInfo, error)
}

// try-order of the compiled backends.
const (
	priorityDSound = iota
	priorityALSA
	priorityMiniaudio
	priorityPortAudio
	priorityOto
	priorityNull
)

type backendEntry struct {
	name     string
	priority int
	factory  func() Backend
}

var (
	registryMtx sync.Mutex
	registry    []backendEntry
)

// registerBackend is called from the init functions of the backend files
// compiled for the current platform.
func registerBackend(priority int, name string, factory func() Backend) {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	registry = append(registry, backendEntry{name: name, priority: priority, factory: factory})
	slices.SortStableFunc(registry, func(a, b backendEntry) int {
		return cmp.Compare(a.priority, b.priority)
	})
}

// BackendNames lists the compiled backends in default try-order.
func BackendNames() []string {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}

	return names
}

// DefaultBackends returns one fresh Backend per compiled backend, in
// default try-order.
func DefaultBackends() []Backend {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	backends := make([]Backend, len(registry))
	for i, e := range registry {
		backends[i] = e.factory()
	}

	return backends
}

// NewBackend returns a fresh Backend by name.
func NewBackend(name string) (Backend, error) {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	for _, e := range registry {
		if e.name == name {
			return e.factory(), nil
		}
	}

	return nil, fmt.Errorf("%w: unknown backend %q", ErrNoBackend, name)
}

// Devices enumerates the endpoints of the named backend.
func Devices(backend string, t DeviceType) ([]DeviceInfo, error) {
	b, err := NewBackend(backend)
	if err != nil {
		return nil, err
	}

	e, ok := b.(Enumerator)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot enumerate devices", ErrApiNotFound, backend)
	}

	return e.Devices(t)
}

// runtimeRef guards a process-wide backend runtime. The first acquire runs
// its setup and the last release runs teardown. When exclusive is set only
// one holder may exist at a time.
type runtimeRef struct {
	teardown  func() error
	exclusive bool

	refs atomic.Int32
	mtx  sync.Mutex
}

func (r *runtimeRef) acquire(setup func() error) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.refs.Load() > 0 {
		if r.exclusive {
			return ErrBusy
		}
		r.refs.Add(1)
		return nil
	}

	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}

	r.refs.Add(1)

	return nil
}

func (r *runtimeRef) release() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.refs.Load() == 0 {
		return nil
	}

	if r.refs.Add(-1) > 0 || r.teardown == nil {
		return nil
	}

	return r.teardown()
}

func (r *runtimeRef) active() int32 { return r.refs.Load() }
