// SPDX-License-Identifier: EPL-2.0

package mixer

import "fmt"

// Group identifies a mixing bus.
type Group int

const (
	GroupMaster Group = iota
	GroupEffects
	GroupMusic
	GroupVoice

	// GroupCount is the size of the group table.
	GroupCount
)

// String returns the group name used by ParseGroup and config files.
func (g Group) String() string {
	switch g {
	case GroupMaster:
		return "master"
	case GroupEffects:
		return "effects"
	case GroupMusic:
		return "music"
	case GroupVoice:
		return "voice"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// Valid reports whether g indexes the group table.
func (g Group) Valid() bool {
	return g >= 0 && g < GroupCount
}

// ParseGroup maps a group name back to its id.
func ParseGroup(name string) (Group, error) {
	for g := range GroupCount {
		if g.String() == name {
			return g, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidGroup, name)
}

type groupState struct {
	volume float32
	paused bool
}

// PauseGroup silences every instance on g without moving their cursors.
func (m *Mixer) PauseGroup(g Group) error {
	return m.updateGroup(g, func(gs *groupState) { gs.paused = true })
}

// ResumeGroup undoes PauseGroup.
func (m *Mixer) ResumeGroup(g Group) error {
	return m.updateGroup(g, func(gs *groupState) { gs.paused = false })
}

// SetGroupVolume sets the linear volume of g. Negative values clamp to 0.
func (m *Mixer) SetGroupVolume(g Group, volume float32) error {
	return m.updateGroup(g, func(gs *groupState) { gs.volume = max(volume, 0) })
}

// IsGroupPaused reports whether g is paused.
func (m *Mixer) IsGroupPaused(g Group) (bool, error) {
	if !g.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidGroup, int(g))
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.groups[g].paused, nil
}

// GroupVolume returns the linear volume of g.
func (m *Mixer) GroupVolume(g Group) (float32, error) {
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGroup, int(g))
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.groups[g].volume, nil
}

func (m *Mixer) updateGroup(g Group, fn func(*groupState)) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGroup, int(g))
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	fn(&m.groups[g])

	return nil
}

// effectiveVolume multiplies instance, group and master volume. Master is
// applied once for instances that sit on the master group.
func (m *Mixer) effectiveVolume(inst *Instance) float32 {
	vol := inst.volume * m.groups[inst.group].volume
	if inst.group != GroupMaster {
		vol *= m.groups[GroupMaster].volume
	}

	return vol
}
