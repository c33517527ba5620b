// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded sound data shared by the mixer.
//
// # Source
//
// A Source is an immutable buffer of interleaved signed 16-bit PCM plus its
// channel count and native sample rate:
//
//	src, err := audio.NewSource(2, 44100, samples)
//
// Sources are created once, usually by a decoder, and referenced by any
// number of playing sounds. The mixer never resamples, so a Source whose
// rate differs from the device rate plays at a different pitch.
//
// # Decoders
//
// Every format package (wav, flac, vorbis, aiff, mp3) exposes a Decoder
// returning a *Source. A Decoder that does not recognize the header returns
// an error wrapping ErrUnrecognized; a recognized but broken file returns
// an error wrapping ErrInvalidResource.
//
// # Decoder chain
//
// A Chain tries decoders in a fixed priority order:
//
//	chain := audio.NewChain()
//	chain.Register("wav", wav.Decoder{})
//	chain.Register("flac", flac.Decoder{})
//	src, name, err := chain.Decode(data)
//
// The first decoder that recognizes the data wins and later decoders never
// see it. When nothing matches, Decode returns ErrUnsupportedFormat.
//
// # Error Handling
//
//	src, _, err := chain.Decode(data)
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // no decoder knows this container
//	}
package audio
