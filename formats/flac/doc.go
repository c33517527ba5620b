// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC streams into audio.Source.
//
// Frame parsing is done by github.com/mewkiz/flac. Subframes are
// interleaved per sample and scaled from the stream bit depth to 16 bits
// by shifting.
//
// # Recognition
//
// Input must start with the "fLaC" marker; otherwise the decoder returns
// ErrNotFlacFile, which wraps audio.ErrUnrecognized. Damaged streams
// return errors wrapping audio.ErrInvalidResource.
package flac
