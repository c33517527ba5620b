// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	t.Parallel()

	dev, err := Init(Config{}, Callbacks{}, newNullBackend())
	require.NoError(t, err)
	defer dev.Uninit()

	assert.Equal(t, "null", dev.BackendName())
	assert.Equal(t, StateStopped, dev.State())
	assert.Equal(t, Playback, dev.Type())
	assert.Equal(t, FormatS16, dev.Format())
	assert.Equal(t, DefaultChannels, dev.Channels())
	assert.Equal(t, DefaultSampleRate, dev.SampleRate())
	assert.Equal(t, DefaultSampleRate*DefaultBufferSizeMilliseconds/1000, dev.BufferSizeInFrames())
	assert.Equal(t, DefaultPeriods, dev.Periods())
}

func TestInitBufferSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"frames win", Config{SampleRate: 48000, BufferSizeInFrames: 512, BufferSizeInMilliseconds: 100}, 512},
		{"from milliseconds", Config{SampleRate: 48000, BufferSizeInMilliseconds: 10}, 480},
		{"default milliseconds", Config{SampleRate: 8000}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev, err := Init(tt.cfg, Callbacks{}, newFake("fake"))
			require.NoError(t, err)
			defer dev.Uninit()

			assert.Equal(t, tt.want, dev.BufferSizeInFrames())
		})
	}
}

func TestInitRejectsConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"device type", Config{Type: DeviceType(7)}, ErrDeviceTypeNotSupported},
		{"format", Config{Format: Format(9)}, ErrFormatNotSupported},
		{"channels", Config{Channels: -1}, ErrInvalidArgument},
		{"sample rate", Config{SampleRate: -44100}, ErrInvalidArgument},
		{"periods", Config{Periods: -2}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := newFake("fake")
			_, err := Init(tt.cfg, Callbacks{}, b)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInitFallsBack(t *testing.T) {
	t.Parallel()

	broken := newFake("broken")
	broken.initErr = ErrApiNotFound
	working := newFake("working")

	var logs atomic.Int32
	dev, err := Init(Config{}, Callbacks{
		Log: func(*Device, string) { logs.Add(1) },
	}, broken, working)
	require.NoError(t, err)
	defer dev.Uninit()

	assert.Equal(t, "working", dev.BackendName())
	assert.Positive(t, logs.Load())
}

func TestInitNoBackend(t *testing.T) {
	t.Parallel()

	a := newFake("a")
	a.initErr = ErrApiNotFound
	b := newFake("b")
	b.initErr = ErrFormatNotSupported

	_, err := Init(Config{}, Callbacks{}, a, b)
	require.ErrorIs(t, err, ErrNoBackend)
	assert.ErrorIs(t, err, ErrApiNotFound)
	assert.ErrorIs(t, err, ErrFormatNotSupported)
}

func TestLooperLifecycle(t *testing.T) {
	t.Parallel()

	var sends atomic.Int32
	dev, err := Init(Config{SampleRate: 48000, BufferSizeInFrames: 480}, Callbacks{
		Send: func(_ *Device, frames uint32, out []int16) uint32 {
			sends.Add(1)
			return frames
		},
	}, newNullBackend())
	require.NoError(t, err)

	require.NoError(t, dev.Start())
	assert.Equal(t, StateStarted, dev.State())
	require.ErrorIs(t, dev.Start(), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return sends.Load() > 2 }, time.Second, time.Millisecond)

	require.NoError(t, dev.Stop())
	assert.Equal(t, StateStopped, dev.State())
	require.ErrorIs(t, dev.Stop(), ErrAlreadyStopped)

	require.NoError(t, dev.Start())
	require.NoError(t, dev.Uninit())
	assert.Equal(t, StateUninitialized, dev.State())
	require.NoError(t, dev.Uninit())

	require.ErrorIs(t, dev.Start(), ErrNotInitialized)
	require.ErrorIs(t, dev.Stop(), ErrNotInitialized)
}

func TestConcurrentStart(t *testing.T) {
	t.Parallel()

	dev, err := Init(Config{}, Callbacks{}, newFakeLooper("fake"))
	require.NoError(t, err)
	defer dev.Uninit()

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = dev.Start()
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrAlreadyStarted) || errors.Is(err, ErrAlreadyStarting), err)
	}
	assert.Equal(t, 1, ok)
}

func TestLooperStartFailure(t *testing.T) {
	t.Parallel()

	b := newFakeLooper("fake")
	dev, err := Init(Config{}, Callbacks{}, b)
	require.NoError(t, err)
	defer dev.Uninit()

	cause := errors.New("no hardware")
	b.set(func(f *fakeBackend) { f.startErr = cause })

	err = dev.Start()
	require.ErrorIs(t, err, ErrFailedToStartBackendDevice)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, StateStopped, dev.State())

	b.set(func(f *fakeBackend) { f.startErr = nil })
	require.NoError(t, dev.Start())
	require.NoError(t, dev.Stop())
}

func TestDeviceLost(t *testing.T) {
	t.Parallel()

	b := newFakeLooper("fake")
	stopped := make(chan struct{}, 1)
	dev, err := Init(Config{}, Callbacks{
		Stop: func(*Device) { stopped <- struct{}{} },
	}, b)
	require.NoError(t, err)
	defer dev.Uninit()

	require.NoError(t, dev.Start())
	b.lose <- struct{}{}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop callback not called")
	}

	require.Eventually(t, func() bool { return dev.State() == StateStopped }, time.Second, time.Millisecond)
	require.ErrorIs(t, dev.Stop(), ErrAlreadyStopped)

	require.NoError(t, dev.Start())
	require.NoError(t, dev.Stop())

	select {
	case <-stopped:
		t.Fatal("requested stop reported as lost")
	default:
	}
}

func TestCallbackBackendLifecycle(t *testing.T) {
	t.Parallel()

	b := newFake("fake")
	dev, err := Init(Config{}, Callbacks{}, b)
	require.NoError(t, err)

	require.NoError(t, dev.Start())
	assert.Equal(t, StateStarted, dev.State())

	require.NoError(t, dev.Stop())
	assert.Equal(t, StateStopped, dev.State())

	b.set(func(f *fakeBackend) { f.stopErr = errors.New("driver hung") })
	require.NoError(t, dev.Start())
	require.ErrorIs(t, dev.Stop(), ErrFailedToStopBackendDevice)
	assert.Equal(t, StateStopped, dev.State())

	b.set(func(f *fakeBackend) { f.startErr = errors.New("busy") })
	require.ErrorIs(t, dev.Start(), ErrFailedToStartBackendDevice)
	assert.Equal(t, StateStopped, dev.State())

	require.NoError(t, dev.Uninit())
	starts, _, uninits := b.counts()
	assert.Equal(t, 2, starts)
	assert.Equal(t, 1, uninits)
}

func TestCallbackBackendLost(t *testing.T) {
	t.Parallel()

	var stops atomic.Int32
	dev, err := Init(Config{}, Callbacks{
		Stop: func(*Device) { stops.Add(1) },
	}, newFake("fake"))
	require.NoError(t, err)
	defer dev.Uninit()

	dev.lost()
	assert.Zero(t, stops.Load())

	require.NoError(t, dev.Start())
	dev.lost()
	assert.Equal(t, int32(1), stops.Load())
	assert.Equal(t, StateStopped, dev.State())
}

func TestUninitStopsStartedDevice(t *testing.T) {
	t.Parallel()

	b := newFakeLooper("fake")
	dev, err := Init(Config{}, Callbacks{}, b)
	require.NoError(t, err)

	require.NoError(t, dev.Start())
	require.NoError(t, dev.Uninit())

	_, _, uninits := b.counts()
	assert.Equal(t, 1, uninits)
}

func TestStartStopRace(t *testing.T) {
	t.Parallel()

	dev, err := Init(Config{SampleRate: 8000, BufferSizeInFrames: 80}, Callbacks{}, newNullBackend())
	require.NoError(t, err)

	allowed := []error{ErrAlreadyStarted, ErrAlreadyStarting, ErrAlreadyStopped, ErrAlreadyStopping, ErrBusy}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				var err error
				if i%2 == 0 {
					err = dev.Start()
				} else {
					err = dev.Stop()
				}
				if err == nil {
					continue
				}
				matched := false
				for _, a := range allowed {
					matched = matched || errors.Is(err, a)
				}
				assert.True(t, matched, err)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, dev.Uninit())
}

func TestRewind(t *testing.T) {
	t.Parallel()

	const buffer = 1000

	dev, err := Init(Config{SampleRate: 48000, BufferSizeInFrames: buffer, Periods: 2}, Callbacks{}, newNullBackend())
	require.NoError(t, err)
	defer dev.Uninit()

	assert.Zero(t, dev.AvailableRewindFrames())
	assert.Zero(t, dev.Rewind(10))

	require.NoError(t, dev.Start())
	require.Eventually(t, func() bool {
		return dev.AvailableRewindFrames() >= buffer/2
	}, time.Second, time.Millisecond)

	assert.Zero(t, dev.Rewind(0))
	assert.Equal(t, uint32(100), dev.Rewind(100))
	assert.LessOrEqual(t, dev.Rewind(1<<20), uint32(buffer))
}

func TestRewindUnsupported(t *testing.T) {
	t.Parallel()

	capture, err := Init(Config{Type: Capture, SampleRate: 48000, BufferSizeInFrames: 480}, Callbacks{}, newNullBackend())
	require.NoError(t, err)
	defer capture.Uninit()

	require.NoError(t, capture.Start())
	assert.Zero(t, capture.AvailableRewindFrames())
	assert.Zero(t, capture.Rewind(10))

	plain, err := Init(Config{}, Callbacks{}, newFake("fake"))
	require.NoError(t, err)
	defer plain.Uninit()

	require.NoError(t, plain.Start())
	assert.Zero(t, plain.Rewind(10))
}

func TestCaptureReceivesFrames(t *testing.T) {
	t.Parallel()

	got := make(chan uint32, 16)
	dev, err := Init(Config{Type: Capture, Channels: 1, SampleRate: 16000, BufferSizeInFrames: 160}, Callbacks{
		Recv: func(_ *Device, frames uint32, in []int16) {
			select {
			case got <- frames:
			default:
			}
		},
	}, newNullBackend())
	require.NoError(t, err)
	defer dev.Uninit()

	require.NoError(t, dev.Start())

	select {
	case frames := <-got:
		assert.Equal(t, uint32(80), frames)
	case <-time.After(time.Second):
		t.Fatal("no capture callback")
	}
}

func TestSendPadsWithSilence(t *testing.T) {
	t.Parallel()

	dev := newDevice(Config{Channels: 2}, Callbacks{
		Send: func(_ *Device, frames uint32, out []int16) uint32 {
			for i := range out {
				out[i] = 7
			}
			return 1
		},
	})

	out := []int16{1, 1, 1, 1, 1, 1}
	dev.send(3, out)
	assert.Equal(t, []int16{7, 7, 0, 0, 0, 0}, out)

	silent := newDevice(Config{Channels: 2}, Callbacks{})
	out = []int16{5, 5, 5, 5}
	silent.send(2, out)
	assert.Equal(t, []int16{0, 0, 0, 0}, out)
}

func TestUserData(t *testing.T) {
	t.Parallel()

	type game struct{ name string }
	g := &game{name: "pong"}

	dev, err := Init(Config{UserData: g}, Callbacks{}, newFake("fake"))
	require.NoError(t, err)
	defer dev.Uninit()

	assert.Same(t, g, dev.UserData())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "started", StateStarted.String())
	assert.Equal(t, "state(42)", State(42).String())
	assert.Equal(t, "capture", Capture.String())
	assert.Equal(t, "s16", FormatS16.String())
	assert.Equal(t, 2, FormatS16.BytesPerSample())
}
