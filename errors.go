// SPDX-License-Identifier: EPL-2.0

package retromix

import "errors"

var (
	// ErrSourceInUse is returned by DeleteSource while a sound still plays
	// from the source.
	ErrSourceInUse = errors.New("source in use")

	// ErrNoDevice means the engine runs without an audio device. Render
	// still works.
	ErrNoDevice = errors.New("no audio device")

	// ErrUnknownSource is returned for sources the engine did not create or
	// has already deleted.
	ErrUnknownSource = errors.New("unknown source")
)
