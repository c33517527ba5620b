// SPDX-License-Identifier: EPL-2.0

// Package retromix is a small realtime audio engine for retro-style games.
//
// An Engine decodes sound files into immutable sources, plays any number of
// sounds from them through a software mixer, and feeds the mix to an audio
// device. Only signed 16-bit PCM is mixed and nothing is resampled: sources
// should already be at the device rate.
//
// # Quick Start
//
//	eng, err := retromix.New(retromix.Options{})
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	jump, err := eng.LoadSource("jump.wav")
//	if err != nil {
//	    return err
//	}
//
//	if err := eng.Start(); err != nil {
//	    log.Println("no sound:", err)
//	}
//
//	eng.PlayOnce(jump, mixer.GroupEffects)
//
// Call Step once per game step so finished one-shot sounds are removed.
//
// # Formats
//
// LoadSource and DecodeSource try WAV, FLAC, Ogg Vorbis, AIFF and MP3 in
// that order. The first decoder that recognizes the header decides the
// result; a broken file of a known format fails with audio.ErrInvalidResource
// and data nobody recognizes fails with audio.ErrUnsupportedFormat.
//
// # Groups
//
// Every sound plays on one of the master, effects, music and voice groups.
// Group volumes multiply the sound volume, and master multiplies everything.
// Pausing a group silences its sounds without moving their cursors.
//
// # Devices
//
// New opens the first backend that works (see package device). When none
// does, the engine keeps running without sound: Start returns an error
// wrapping ErrNoDevice and DeviceErr reports the cause. Render mixes
// offline in either case.
package retromix
