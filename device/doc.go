// SPDX-License-Identifier: EPL-2.0

// Package device opens audio streams on the host and drives them.
//
// # Lifecycle
//
// A Device moves through Uninitialized, Stopped, Starting, Started and
// Stopping:
//
//	dev, err := device.Init(device.Config{SampleRate: 44100}, device.Callbacks{
//	    Send: func(dev *device.Device, frames uint32, out []int16) uint32 {
//	        return render(frames, out)
//	    },
//	})
//	defer dev.Uninit()
//	err = dev.Start()
//
// Start and Stop block until the backend acknowledges the transition.
// Asking for the state the device is already in, or is moving to, returns
// ErrAlreadyStarted, ErrAlreadyStarting, ErrAlreadyStopped or
// ErrAlreadyStopping; asking for the opposite one mid-transition returns
// ErrBusy. Uninit may be called any number of times.
//
// # Backends
//
// Init tries backends in order and keeps the first that opens. The
// compiled defaults, in order, are dsound (Windows), alsa (Linux),
// miniaudio (cgo), portaudio (build tag portaudio), oto and null.
//
// Backends implementing Looper get a dedicated worker goroutine that runs
// their main loop. The others call back from their own audio thread.
// Either way the Send callback runs off the application goroutine and must
// not block.
//
// The null backend opens everywhere. It paces the callbacks with a timer
// and discards the output, which makes it the fallback of last resort and
// the backend used by tests.
//
// # Rewind
//
// Playback backends implementing Rewinder can take back queued frames that
// have not been played yet, so freshly triggered sounds are heard without
// waiting for the queue to drain. Other devices report 0.
package device
