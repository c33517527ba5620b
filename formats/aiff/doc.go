// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to walk the FORM container
// and read big-endian PCM. The whole file is decoded into an audio.Source.
//
// # Supported Formats
//
//   - AIFF and uncompressed AIFC
//   - 8, 16, 24 and 32-bit signed PCM, scaled to 16 bits by shifting
//   - Any channel count and sample rate
//
// # Decoding AIFF Files
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// # Error Handling
//
// ErrNotAiffFile wraps audio.ErrUnrecognized. ErrUnsupportedBitDepth and
// ErrUnsupportedAiffLayout wrap audio.ErrInvalidResource.
package aiff
