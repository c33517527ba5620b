// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by tests across packages.
package audiotest

import (
	"bytes"
	"math"
	"testing"

	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/formats/wav"
)

// Waveform returns the sample for a frame and channel.
type Waveform func(frame, channel int) int16

// NewSource builds a Source of frames frames generated by waveform.
func NewSource(tb testing.TB, sampleRate, channels, frames int, waveform Waveform) *audio.Source {
	tb.Helper()

	samples := make([]int16, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = waveform(f, c)
		}
	}

	src, err := audio.NewSource(channels, sampleRate, samples)
	if err != nil {
		tb.Fatalf("audiotest.NewSource: %v", err)
	}

	return src
}

// NewConstantSource creates a source where every sample is value.
func NewConstantSource(tb testing.TB, channels, frames int, value int16) *audio.Source {
	tb.Helper()

	return NewSource(tb, 44100, channels, frames, func(int, int) int16 { return value })
}

// NewRampSource creates a source whose sample is frame*channels+channel+1,
// which makes every sample position distinguishable.
func NewRampSource(tb testing.TB, channels, frames int) *audio.Source {
	tb.Helper()

	return NewSource(tb, 44100, channels, frames, func(f, c int) int16 {
		return int16(f*channels + c + 1)
	})
}

// NewSineSource creates a sine wave at frequency with the given peak.
func NewSineSource(tb testing.TB, sampleRate, channels, frames int, frequency float64, peak int16) *audio.Source {
	tb.Helper()

	return NewSource(tb, sampleRate, channels, frames, func(f, _ int) int16 {
		t := float64(f) / float64(sampleRate)
		return int16(float64(peak) * math.Sin(2*math.Pi*frequency*t))
	})
}

// WAVBytes encodes src as a 16-bit WAV file in memory.
func WAVBytes(tb testing.TB, src *audio.Source) []byte {
	tb.Helper()

	buf := new(bytes.Buffer)
	if err := wav.Encode(buf, src); err != nil {
		tb.Fatalf("audiotest.WAVBytes: %v", err)
	}

	return buf.Bytes()
}
