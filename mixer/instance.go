// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/ik5/retromix/audio"

// State is the exclusive playback state of an Instance.
type State int

const (
	Stopped State = iota
	Playing
)

// String returns the lower-case state name.
func (s State) String() string {
	if s == Playing {
		return "playing"
	}

	return "stopped"
}

// Instance is one playback voice: a Source plus cursor, volume and flags.
//
// An Instance is owned by the Mixer that created it. All methods take the
// mixer lock, so they are safe to call while the audio callback mixes.
type Instance struct {
	m   *Mixer
	src *audio.Source

	group  Group
	volume float32
	pan    float32

	state             State
	looping           bool
	inlined           bool
	markedForDeletion bool

	// cursor is an interleaved sample index into src.
	cursor int
}

// Play starts or resumes playback from the current cursor.
func (i *Instance) Play(loop bool) {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	if i.markedForDeletion {
		return
	}

	i.state = Playing
	i.looping = loop
}

// Restart rewinds the cursor to the first frame and plays.
func (i *Instance) Restart(loop bool) {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	if i.markedForDeletion {
		return
	}

	i.cursor = 0
	i.state = Playing
	i.looping = loop
}

// Stop halts playback, keeping the cursor and loop flag.
func (i *Instance) Stop() {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	i.state = Stopped
}

// MarkForDeletion stops the instance and queues it for the next Collect.
// The instance stays in the registry until then.
func (i *Instance) MarkForDeletion() {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	i.markForDeletion()
}

func (i *Instance) markForDeletion() {
	i.state = Stopped
	i.markedForDeletion = true
	i.m.garbagePending = true
}

// SetVolume sets the linear volume. Negative values clamp to 0.
func (i *Instance) SetVolume(v float32) {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	i.volume = max(v, 0)
}

// SetPan stores a pan position clamped to [-1, 1]. Pan is not applied when
// mixing.
func (i *Instance) SetPan(p float32) {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	i.pan = min(max(p, -1), 1)
}

// IsPlaying reports whether the instance is being mixed.
func (i *Instance) IsPlaying() bool {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.state == Playing
}

// IsLooping reports whether playback wraps to the start at the end.
func (i *Instance) IsLooping() bool {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.looping
}

// IsInlined reports whether the instance came from PlayOnce.
func (i *Instance) IsInlined() bool {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.inlined
}

// IsMarkedForDeletion reports whether the next Collect removes the instance.
func (i *Instance) IsMarkedForDeletion() bool {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.markedForDeletion
}

// State returns the playback state.
func (i *Instance) State() State {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.state
}

// Volume returns the linear instance volume.
func (i *Instance) Volume() float32 {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.volume
}

// Pan returns the stored pan position.
func (i *Instance) Pan() float32 {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.pan
}

// Cursor returns the interleaved sample index of the next sample to mix.
func (i *Instance) Cursor() int {
	i.m.mtx.Lock()
	defer i.m.mtx.Unlock()

	return i.cursor
}

// Group returns the bus the instance plays on.
func (i *Instance) Group() Group { return i.group }

// Source returns the sample data the instance plays.
func (i *Instance) Source() *audio.Source { return i.src }
