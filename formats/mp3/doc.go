// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams into audio.Source.
//
// This package uses github.com/hajimehoshi/go-mp3, which always outputs
// 16-bit interleaved stereo, so every decoded Source has two channels even
// when the stream is mono.
//
// # Recognition
//
// The input must begin with an ID3v2 tag or an MPEG frame sync
// (eleven set bits). Anything else is ErrNotMP3File, which wraps
// audio.ErrUnrecognized. Failures after that wrap audio.ErrInvalidResource.
//
// # Example
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(src.Channels(), src.SampleRate())
package mp3
