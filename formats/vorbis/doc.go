// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams into audio.Source.
//
// Decoding is done by github.com/jfreymuth/oggvorbis. The whole stream is
// decoded up front and the float output is saturated to int16.
//
// # Recognition
//
// Input that does not start with the "OggS" capture pattern is rejected
// with ErrNotOggFile, which wraps audio.ErrUnrecognized so a decoder chain
// moves on. Once the capture pattern matches, any failure wraps
// audio.ErrInvalidResource.
//
// # Channel Layout
//
// Samples keep the stream's interleaving:
//
//	[L0, R0, L1, R1, L2, R2, ...]
package vorbis
