// SPDX-License-Identifier: EPL-2.0

// Package mixer renders playing sound instances into interleaved 16-bit
// frames.
//
// # Registry
//
// A Mixer owns an ordered list of Instances. NewInstance appends,
// Delete removes immediately and MarkForDeletion defers removal until
// Collect, which the application calls once per step.
//
// # Groups
//
// Every instance belongs to one of GroupMaster, GroupEffects, GroupMusic
// or GroupVoice. The effective gain is instance × group × master, with the
// master factor applied once for instances on the master group. Pausing a
// group skips its instances; pausing master silences the mixer.
//
// # Mixing
//
// Mix overwrites the output buffer, then adds every playing instance,
// saturating at the int16 range. Mono sources feed every output channel.
// Other sources map channel to channel, leaving extra output channels
// silent and dropping extra source channels. Sources are never resampled.
//
// When a source ends, a looping instance wraps to its first frame within
// the same call. Otherwise the instance stops, or, if created by PlayOnce,
// is marked for deletion.
//
// # Concurrency
//
// Mix holds the mixer lock for the whole call and every Instance and group
// method takes the same lock, so the audio callback and the application
// may use a Mixer concurrently.
package mixer
