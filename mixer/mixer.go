// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ik5/retromix/audio"
)

// Mixer owns the sound registry and group table and renders them into
// interleaved 16-bit frames.
type Mixer struct {
	channels int

	groups [GroupCount]groupState
	sounds []*Instance

	garbagePending bool

	mtx *sync.Mutex
}

// New returns a Mixer producing frames of the given channel count.
func New(channels int) (*Mixer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channels=%d", ErrInvalidArgument, channels)
	}

	m := &Mixer{
		channels: channels,
		mtx:      &sync.Mutex{},
	}

	for g := range m.groups {
		m.groups[g].volume = 1
	}

	return m, nil
}

// Channels is the output channel count Mix renders.
func (m *Mixer) Channels() int { return m.channels }

// NewInstance registers a stopped instance of src on group g.
func (m *Mixer) NewInstance(src *audio.Source, g Group) (*Instance, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGroup, int(g))
	}

	inst := &Instance{
		m:      m,
		src:    src,
		group:  g,
		volume: 1,
	}

	m.mtx.Lock()
	m.sounds = append(m.sounds, inst)
	m.mtx.Unlock()

	return inst, nil
}

// PlayOnce plays src once on group g. The instance deletes itself at the
// next Collect after it reaches the end.
func (m *Mixer) PlayOnce(src *audio.Source, g Group) (*Instance, error) {
	inst, err := m.NewInstance(src, g)
	if err != nil {
		return nil, err
	}

	m.mtx.Lock()
	inst.inlined = true
	inst.state = Playing
	m.mtx.Unlock()

	return inst, nil
}

// Delete removes inst from the registry right away, preserving the order
// of the remaining instances.
func (m *Mixer) Delete(inst *Instance) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	idx := slices.Index(m.sounds, inst)
	if idx < 0 {
		return ErrNotFound
	}

	inst.state = Stopped
	m.sounds = slices.Delete(m.sounds, idx, idx+1)

	return nil
}

// Collect removes every instance marked for deletion and returns how many
// were removed. It is meant to run once per application step.
func (m *Mixer) Collect() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if !m.garbagePending {
		return 0
	}

	before := len(m.sounds)
	m.sounds = slices.DeleteFunc(m.sounds, func(inst *Instance) bool {
		return inst.markedForDeletion
	})
	m.garbagePending = false

	return before - len(m.sounds)
}

// Len is the number of registered instances, including ones waiting for
// Collect.
func (m *Mixer) Len() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return len(m.sounds)
}

// Instances returns a snapshot of the registry in mixing order.
func (m *Mixer) Instances() []*Instance {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return slices.Clone(m.sounds)
}

// References reports whether any registered instance uses src.
func (m *Mixer) References(src *audio.Source) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return slices.ContainsFunc(m.sounds, func(inst *Instance) bool {
		return inst.src == src
	})
}

// Mix renders frames frames into out, which must hold at least
// frames*Channels() samples. Output is overwritten, not accumulated.
func (m *Mixer) Mix(frames int, out []int16) error {
	if frames < 0 || len(out) < frames*m.channels {
		return fmt.Errorf("%w: %d frames into %d samples", ErrInvalidArgument, frames, len(out))
	}

	out = out[:frames*m.channels]
	clear(out)

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.groups[GroupMaster].paused {
		return nil
	}

	for _, inst := range m.sounds {
		if inst.state != Playing || inst.markedForDeletion || m.groups[inst.group].paused {
			continue
		}

		vol := m.effectiveVolume(inst)
		if vol <= 0 {
			continue
		}

		m.mixInstance(inst, vol, frames, out)
	}

	return nil
}

// mixInstance adds inst into out, adapting channel layout and handling
// end of source. Called with the lock held.
func (m *Mixer) mixInstance(inst *Instance, vol float32, frames int, out []int16) {
	samples := inst.src.Samples()
	srcCh := inst.src.Channels()
	dstCh := m.channels
	written := 0

	for written < frames {
		n := min((len(samples)-inst.cursor)/srcCh, frames-written)

		for f := range n {
			in := samples[inst.cursor+f*srcCh:]
			dst := out[(written+f)*dstCh : (written+f+1)*dstCh]

			if srcCh == 1 {
				for c := range dst {
					dst[c] = accumulate(dst[c], in[0], vol)
				}
				continue
			}

			for c := range min(srcCh, dstCh) {
				dst[c] = accumulate(dst[c], in[c], vol)
			}
		}

		inst.cursor += n * srcCh
		written += n

		if inst.cursor < len(samples) {
			continue
		}

		inst.cursor = 0
		if inst.looping {
			continue
		}

		if inst.inlined {
			inst.markForDeletion()
		} else {
			inst.state = Stopped
		}

		return
	}
}

// accumulate adds s scaled by vol to dst, saturating at the int16 range.
func accumulate(dst, s int16, vol float32) int16 {
	v := float32(dst) + float32(s)*vol

	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}
