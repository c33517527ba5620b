// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding into audio.Source and 16-bit PCM WAV
// encoding.
//
// The fmt header is read by github.com/go-audio/wav. The data chunk is cut
// to its declared size, so an odd chunk's pad byte is never decoded and a
// missing pad byte is tolerated.
//
// # Supported Encodings
//
//   - PCM unsigned 8-bit, signed 16/24/32-bit
//   - WAVE_FORMAT_EXTENSIBLE with any of the above as SubFormat
//   - IEEE float 32/64-bit, saturated on conversion
//   - A-law and µ-law (8-bit companded)
//
// Any channel count and sample rate is accepted. Samples are not resampled.
//
// # Decoding
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, audio.ErrUnrecognized) {
//	    // not RIFF/WAVE, try another decoder
//	}
//
// # Writing WAV Files
//
//	err := wav.WriteWAV16(file, 44100, 2, samples)
//	err = wav.Encode(file, src)
//
// # Error Handling
//
//   - ErrNotWavFile wraps audio.ErrUnrecognized
//   - ErrUnsupportedWavLayout, ErrUnsupportedWavEncoding and
//     ErrTruncatedWavData wrap audio.ErrInvalidResource
package wav
