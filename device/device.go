// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Device is one playback or capture stream. All methods are safe for
// concurrent use; state transitions are serialized by the device mutex.
type Device struct {
	cfg       Config
	callbacks Callbacks
	backend   Backend
	looper    Looper

	format             Format
	channels           int
	sampleRate         int
	bufferSizeInFrames int
	periods            int

	state atomic.Int32

	// stateMtx pairs state changes with the stop acknowledgement request so
	// the worker never leaves a stale token behind.
	stateMtx *sync.Mutex
	ackStop  bool

	mtx *sync.Mutex

	wakeup   chan struct{}
	startAck chan struct{}
	stopAck  chan struct{}

	workerErr error
	wg        sync.WaitGroup
}

// Init opens a device with the first backend that accepts cfg. With no
// backends given, DefaultBackends is used.
func Init(cfg Config, callbacks Callbacks, backends ...Backend) (*Device, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	if len(backends) == 0 {
		backends = DefaultBackends()
	}

	var errs []error
	for _, b := range backends {
		if b == nil {
			continue
		}

		dev := newDevice(cfg, callbacks)
		if err := dev.open(b); err != nil {
			dev.logf("backend %s unavailable: %v", b.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}

		return dev, nil
	}

	if len(errs) == 0 {
		return nil, ErrNoBackend
	}

	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

func newDevice(cfg Config, callbacks Callbacks) *Device {
	return &Device{
		cfg:                cfg,
		callbacks:          callbacks,
		format:             cfg.Format,
		channels:           cfg.Channels,
		sampleRate:         cfg.SampleRate,
		bufferSizeInFrames: cfg.BufferSizeInFrames,
		periods:            cfg.Periods,
		stateMtx:           &sync.Mutex{},
		mtx:                &sync.Mutex{},
		wakeup:             make(chan struct{}, 1),
		startAck:           make(chan struct{}, 1),
		stopAck:            make(chan struct{}, 1),
	}
}

func (d *Device) open(b Backend) error {
	if err := b.Init(d); err != nil {
		return err
	}

	d.backend = b

	l, ok := b.(Looper)
	if !ok {
		d.state.Store(int32(StateStopped))
		return nil
	}

	d.looper = l

	d.stateMtx.Lock()
	d.state.Store(int32(StateStopped))
	d.ackStop = true
	d.stateMtx.Unlock()

	d.wg.Add(1)
	go d.worker()

	<-d.stopAck

	return nil
}

func (d *Device) worker() {
	defer d.wg.Done()

	lost := false

	for {
		if err := d.backend.Stop(d); err != nil {
			d.logf("backend stop: %v", err)
		}

		d.stateMtx.Lock()
		d.state.Store(int32(StateStopped))
		ack := d.ackStop
		d.ackStop = false
		d.stateMtx.Unlock()

		if ack {
			d.stopAck <- struct{}{}
		}

		if lost {
			lost = false
			d.notifyStop()
		}

		<-d.wakeup

		if d.State() == StateUninitialized {
			return
		}

		if err := d.backend.Start(d); err != nil {
			d.workerErr = fmt.Errorf("%w: %w", ErrFailedToStartBackendDevice, err)

			d.stateMtx.Lock()
			d.ackStop = true
			d.stateMtx.Unlock()

			d.startAck <- struct{}{}
			continue
		}

		d.workerErr = nil
		d.state.Store(int32(StateStarted))
		d.startAck <- struct{}{}

		err := d.looper.MainLoop(d)

		d.stateMtx.Lock()
		lost = d.State() == StateStarted
		d.stateMtx.Unlock()

		if lost && err != nil {
			d.logf("main loop ended: %v", err)
		}
	}
}

// Start begins streaming. It blocks until the backend has started or failed.
func (d *Device) Start() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.stateMtx.Lock()
	switch d.State() {
	case StateUninitialized:
		d.stateMtx.Unlock()
		return ErrNotInitialized
	case StateStarting:
		d.stateMtx.Unlock()
		return ErrAlreadyStarting
	case StateStarted:
		d.stateMtx.Unlock()
		return ErrAlreadyStarted
	case StateStopping:
		d.stateMtx.Unlock()
		return ErrBusy
	}
	d.state.Store(int32(StateStarting))
	d.stateMtx.Unlock()

	if d.looper == nil {
		if err := d.backend.Start(d); err != nil {
			d.state.Store(int32(StateStopped))
			return fmt.Errorf("%w: %w", ErrFailedToStartBackendDevice, err)
		}

		d.state.Store(int32(StateStarted))
		return nil
	}

	d.wakeup <- struct{}{}
	<-d.startAck

	if err := d.workerErr; err != nil {
		<-d.stopAck
		return err
	}

	return nil
}

// Stop halts streaming. It blocks until the backend has stopped.
func (d *Device) Stop() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.stopLocked()
}

func (d *Device) stopLocked() error {
	d.stateMtx.Lock()
	switch d.State() {
	case StateUninitialized:
		d.stateMtx.Unlock()
		return ErrNotInitialized
	case StateStopped:
		d.stateMtx.Unlock()
		return ErrAlreadyStopped
	case StateStopping:
		d.stateMtx.Unlock()
		return ErrAlreadyStopping
	case StateStarting:
		d.stateMtx.Unlock()
		return ErrBusy
	}
	d.state.Store(int32(StateStopping))
	d.ackStop = d.looper != nil
	d.stateMtx.Unlock()

	if d.looper == nil {
		err := d.backend.Stop(d)
		d.state.Store(int32(StateStopped))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToStopBackendDevice, err)
		}

		return nil
	}

	d.looper.BreakMainLoop(d)
	<-d.stopAck

	return nil
}

// Uninit stops the device if needed and releases the backend. Calling it
// more than once is a no-op.
func (d *Device) Uninit() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.State() == StateUninitialized {
		return nil
	}

	if d.State() == StateStarted {
		if err := d.stopLocked(); err != nil {
			d.logf("stop during uninit: %v", err)
		}
	}

	d.stateMtx.Lock()
	d.state.Store(int32(StateUninitialized))
	d.stateMtx.Unlock()

	if d.looper != nil {
		d.wakeup <- struct{}{}
		d.wg.Wait()
	}

	return d.backend.Uninit(d)
}

// AvailableRewindFrames reports how many queued frames Rewind can take
// back. Only playback devices on a rewinding backend report more than 0.
func (d *Device) AvailableRewindFrames() uint32 {
	r, ok := d.rewinder()
	if !ok {
		return 0
	}

	return r.AvailableRewindFrames(d)
}

// Rewind takes back up to frames queued frames and returns how many were
// rewound.
func (d *Device) Rewind(frames uint32) uint32 {
	if frames == 0 {
		return 0
	}

	r, ok := d.rewinder()
	if !ok {
		return 0
	}

	n := min(frames, r.AvailableRewindFrames(d))
	if n == 0 {
		return 0
	}

	return r.Rewind(d, n)
}

func (d *Device) rewinder() (Rewinder, bool) {
	if d.cfg.Type != Playback || d.State() == StateUninitialized {
		return nil, false
	}

	r, ok := d.backend.(Rewinder)

	return r, ok
}

func (d *Device) State() State { return State(d.state.Load()) }

func (d *Device) BackendName() string {
	if d.backend == nil {
		return ""
	}

	return d.backend.Name()
}

func (d *Device) Type() DeviceType        { return d.cfg.Type }
func (d *Device) Format() Format          { return d.format }
func (d *Device) Channels() int           { return d.channels }
func (d *Device) SampleRate() int         { return d.sampleRate }
func (d *Device) BufferSizeInFrames() int { return d.bufferSizeInFrames }
func (d *Device) Periods() int            { return d.periods }
func (d *Device) UserData() any           { return d.cfg.UserData }

// Requested returns the configuration the device was opened with, after
// defaults were applied.
func (d *Device) Requested() Config { return d.cfg }

// periodFrames is the number of frames moved per backend transfer.
func (d *Device) periodFrames() int {
	return max(d.bufferSizeInFrames/max(d.periods, 1), 1)
}

// setActual records what the backend really opened. Zero values keep the
// requested setting.
func (d *Device) setActual(channels, sampleRate, bufferFrames, periods int) {
	if channels > 0 {
		d.channels = channels
	}
	if sampleRate > 0 {
		d.sampleRate = sampleRate
	}
	if bufferFrames > 0 {
		d.bufferSizeInFrames = bufferFrames
	}
	if periods > 0 {
		d.periods = periods
	}
}

// send pulls frameCount frames into out. Whatever the callback leaves
// unwritten is zeroed.
func (d *Device) send(frameCount uint32, out []int16) {
	samples := min(int(frameCount)*d.channels, len(out))
	out = out[:samples]

	var got uint32
	if d.callbacks.Send != nil {
		got = min(d.callbacks.Send(d, frameCount, out), frameCount)
	}

	clear(out[min(int(got)*d.channels, samples):])
}

func (d *Device) recv(frameCount uint32, in []int16) {
	if d.callbacks.Recv != nil {
		d.callbacks.Recv(d, frameCount, in)
	}
}

// notifyStop reports a stop the application did not ask for.
func (d *Device) notifyStop() {
	d.logf("device stopped unexpectedly")

	if d.callbacks.Stop != nil {
		d.callbacks.Stop(d)
	}
}

// lost is called by callback backends when the OS stream dies.
func (d *Device) lost() {
	d.stateMtx.Lock()
	wasStarted := d.State() == StateStarted
	if wasStarted {
		d.state.Store(int32(StateStopped))
	}
	d.stateMtx.Unlock()

	if wasStarted {
		d.notifyStop()
	}
}

func (d *Device) logf(format string, args ...any) {
	if d.callbacks.Log == nil {
		return
	}

	d.callbacks.Log(d, fmt.Sprintf(format, args...))
}
