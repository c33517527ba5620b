// SPDX-License-Identifier: EPL-2.0

package retromix

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/config"
	"github.com/ik5/retromix/device"
	"github.com/ik5/retromix/mixer"
)

// Options configures New. The zero value opens the default device with
// config.Default settings and logs to slog.Default.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Backends overrides Config.Device.Backends.
	Backends []device.Backend

	// NoDevice skips device setup. The engine can still Render.
	NoDevice bool
}

// Engine is the audio context of a game: the decoded sources, the mixer
// playing them and the device the mixer feeds.
type Engine struct {
	cfg   config.Config
	log   *slog.Logger
	chain *audio.Chain
	mixer *mixer.Mixer

	dev    *device.Device
	devErr error

	channels   int
	sampleRate int

	sources map[*audio.Source]struct{}
	closed  bool
	mtx     *sync.Mutex
}

// New builds an engine. A device that fails to open does not fail New: the
// engine keeps running silently and DeviceErr reports why.
func New(opts Options) (*Engine, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		cfg:        cfg,
		log:        log,
		chain:      DefaultChain(),
		channels:   cfg.Device.Channels,
		sampleRate: cfg.Device.SampleRate,
		sources:    make(map[*audio.Source]struct{}),
		mtx:        &sync.Mutex{},
	}

	if e.channels == 0 {
		e.channels = device.DefaultChannels
	}
	if e.sampleRate == 0 {
		e.sampleRate = device.DefaultSampleRate
	}

	if opts.NoDevice {
		e.devErr = ErrNoDevice
	} else {
		e.openDevice(opts.Backends)
	}

	m, err := mixer.New(e.channels)
	if err != nil {
		e.closeDevice()
		return nil, err
	}
	e.mixer = m

	groups := map[mixer.Group]float64{
		mixer.GroupMaster:  cfg.Groups.Master,
		mixer.GroupEffects: cfg.Groups.Effects,
		mixer.GroupMusic:   cfg.Groups.Music,
		mixer.GroupVoice:   cfg.Groups.Voice,
	}
	for g, v := range groups {
		if err := m.SetGroupVolume(g, float32(v)); err != nil {
			e.closeDevice()
			return nil, err
		}
	}

	return e, nil
}

func (e *Engine) openDevice(backends []device.Backend) {
	if len(backends) == 0 {
		for _, name := range e.cfg.Device.Backends {
			b, err := device.NewBackend(name)
			if err != nil {
				e.log.Warn("skipping audio backend", "backend", name, "err", err)
				continue
			}
			backends = append(backends, b)
		}

		if len(backends) == 0 && len(e.cfg.Device.Backends) > 0 {
			e.devErr = fmt.Errorf("%w: %w", ErrNoDevice, device.ErrNoBackend)
			e.log.Warn("no configured audio backend is available, running silent")
			return
		}
	}

	dev, err := device.Init(e.cfg.Device.ToDevice(), device.Callbacks{
		Send: e.send,
		Stop: e.onStop,
		Log:  e.onLog,
	}, backends...)
	if err != nil {
		e.devErr = fmt.Errorf("%w: %w", ErrNoDevice, err)
		e.log.Warn("audio device unavailable, running silent", "err", err)
		return
	}

	e.dev = dev
	e.channels = dev.Channels()
	e.sampleRate = dev.SampleRate()

	e.log.Info("audio device ready",
		"backend", dev.BackendName(),
		"channels", dev.Channels(),
		"sample_rate", dev.SampleRate(),
		"buffer_frames", dev.BufferSizeInFrames(),
		"periods", dev.Periods())
}

func (e *Engine) send(_ *device.Device, frames uint32, out []int16) uint32 {
	if err := e.mixer.Mix(int(frames), out); err != nil {
		return 0
	}

	return frames
}

func (e *Engine) onStop(dev *device.Device) {
	e.log.Warn("audio device stopped unexpectedly", "backend", dev.BackendName())
}

func (e *Engine) onLog(dev *device.Device, msg string) {
	e.log.Debug(msg, "backend", dev.BackendName())
}

// DeviceErr reports why the engine has no device, or nil when it has one.
func (e *Engine) DeviceErr() error { return e.devErr }

// Device returns the open device, or nil.
func (e *Engine) Device() *device.Device { return e.dev }

func (e *Engine) Mixer() *mixer.Mixer { return e.mixer }
func (e *Engine) Channels() int       { return e.channels }
func (e *Engine) SampleRate() int     { return e.sampleRate }

// Decoders lists the decoder names in try order.
func (e *Engine) Decoders() []string { return e.chain.Names() }

// CreateSound adds a stopped sound playing src on group g.
func (e *Engine) CreateSound(src *audio.Source, g mixer.Group) (*mixer.Instance, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if !e.tracked(src) {
		return nil, ErrUnknownSource
	}

	return e.mixer.NewInstance(src, g)
}

// PlayOnce plays src once on group g; the sound deletes itself at the Step
// after it ends.
func (e *Engine) PlayOnce(src *audio.Source, g mixer.Group) (*mixer.Instance, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if !e.tracked(src) {
		return nil, ErrUnknownSource
	}

	return e.mixer.PlayOnce(src, g)
}

// DeleteSound removes inst right away.
func (e *Engine) DeleteSound(inst *mixer.Instance) error {
	return e.mixer.Delete(inst)
}

func (e *Engine) SetGroupVolume(g mixer.Group, volume float32) error {
	return e.mixer.SetGroupVolume(g, volume)
}

func (e *Engine) GroupVolume(g mixer.Group) (float32, error) {
	return e.mixer.GroupVolume(g)
}

func (e *Engine) PauseGroup(g mixer.Group) error  { return e.mixer.PauseGroup(g) }
func (e *Engine) ResumeGroup(g mixer.Group) error { return e.mixer.ResumeGroup(g) }

func (e *Engine) IsGroupPaused(g mixer.Group) (bool, error) {
	return e.mixer.IsGroupPaused(g)
}

// Step ends a game step: sounds marked for deletion are removed. It returns
// how many were removed.
func (e *Engine) Step() int {
	return e.mixer.Collect()
}

// Render mixes frames frames into out without a device, for offline
// rendering and tests. It advances the same cursors the device does.
func (e *Engine) Render(frames int, out []int16) error {
	return e.mixer.Mix(frames, out)
}

// Start starts the device.
func (e *Engine) Start() error {
	if e.dev == nil {
		return e.devErr
	}

	if err := e.dev.Start(); err != nil {
		return err
	}

	e.log.Debug("audio device started", "backend", e.dev.BackendName())

	return nil
}

// Stop stops the device. Sounds keep their cursors.
func (e *Engine) Stop() error {
	if e.dev == nil {
		return e.devErr
	}

	if err := e.dev.Stop(); err != nil {
		return err
	}

	e.log.Debug("audio device stopped", "backend", e.dev.BackendName())

	return nil
}

// Close releases the device. Closing twice is a no-op.
func (e *Engine) Close() error {
	e.mtx.Lock()
	if e.closed {
		e.mtx.Unlock()
		return nil
	}
	e.closed = true
	e.mtx.Unlock()

	return e.closeDevice()
}

func (e *Engine) closeDevice() error {
	if e.dev == nil {
		return nil
	}

	return e.dev.Uninit()
}
