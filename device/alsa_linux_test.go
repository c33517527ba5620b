// SPDX-License-Identifier: EPL-2.0

//go:build linux

package device

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream replays a list of Wait results and breaks the loop once
// the script runs out.
type scriptedStream struct {
	backend *alsaBackend
	waits   []error // nil means ready
	always  error   // returned forever when set

	prepares int
	writes   int
}

func (s *scriptedStream) Wait(int) (bool, error) {
	if s.always != nil {
		return false, s.always
	}

	if len(s.waits) == 0 {
		s.backend.BreakMainLoop(nil)
		return false, nil
	}

	err := s.waits[0]
	s.waits = s.waits[1:]

	return err == nil, err
}

func (s *scriptedStream) Prepare() error {
	s.prepares++
	return nil
}

func (s *scriptedStream) Read(data any) (int, error) {
	return len(data.([]int16)) / 2, nil
}

func (s *scriptedStream) Write(data any) (int, error) {
	s.writes++
	return len(data.([]int16)) / 2, nil
}

func newALSATestDevice(t *testing.T, stream *scriptedStream) (*Device, *alsaBackend) {
	t.Helper()

	cfg, err := Config{Type: Playback, Channels: 2, SampleRate: 48000, BufferSizeInFrames: 64}.withDefaults()
	require.NoError(t, err)

	b := &alsaBackend{stream: stream, buf: make([]int16, 16)}
	stream.backend = b

	return newDevice(cfg, Callbacks{}), b
}

func TestALSAMainLoop_GivesUpOnPersistentWaitErrors(t *testing.T) {
	t.Parallel()

	stream := &scriptedStream{always: syscall.EIO}
	dev, b := newALSATestDevice(t, stream)

	err := b.MainLoop(dev)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.EIO))
	assert.Equal(t, alsaMaxRecoveries, stream.prepares)
	assert.Zero(t, stream.writes)
}

func TestALSAMainLoop_ReadyWaitResetsFailures(t *testing.T) {
	t.Parallel()

	var waits []error
	for range alsaMaxRecoveries {
		waits = append(waits, syscall.EIO)
	}
	waits = append(waits, nil)
	for range alsaMaxRecoveries {
		waits = append(waits, syscall.EIO)
	}
	waits = append(waits, nil)

	stream := &scriptedStream{waits: waits}
	dev, b := newALSATestDevice(t, stream)

	require.NoError(t, b.MainLoop(dev))
	assert.Equal(t, 2*alsaMaxRecoveries, stream.prepares)
	assert.Equal(t, 2, stream.writes)
}
