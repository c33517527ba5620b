// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/retromix/audio"
	"github.com/mewkiz/flac/frame"
)

// mockFrameReader hands out prepared frames, then io.EOF or err.
type mockFrameReader struct {
	frames []*frame.Frame
	err    error
}

func (m *mockFrameReader) ParseNext() (*frame.Frame, error) {
	if len(m.frames) == 0 {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}

	f := m.frames[0]
	m.frames = m.frames[1:]

	return f, nil
}

func newFrame(channels ...[]int32) *frame.Frame {
	f := &frame.Frame{}
	for _, samples := range channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{Samples: samples})
	}

	return f
}

func TestDecoder_NotFlac(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("OggS\x00\x02")))
	if !errors.Is(err, ErrNotFlacFile) {
		t.Errorf("Decode() error = %v, want ErrNotFlacFile", err)
	}

	if !errors.Is(err, audio.ErrUnrecognized) {
		t.Errorf("Decode() error = %v, want audio.ErrUnrecognized", err)
	}
}

func TestDecoder_BrokenFlac(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("fLaC\x00")))
	if !errors.Is(err, audio.ErrInvalidResource) {
		t.Errorf("Decode() error = %v, want audio.ErrInvalidResource", err)
	}
}

func TestDecodeAll_InterleavesStereo(t *testing.T) {
	t.Parallel()

	rd := &mockFrameReader{frames: []*frame.Frame{
		newFrame([]int32{1, 2}, []int32{-1, -2}),
		newFrame([]int32{3}, []int32{-3}),
	}}

	src, err := decodeAll(rd, streamFormat{channels: 2, sampleRate: 44100, bitDepth: 16})
	if err != nil {
		t.Fatalf("decodeAll() error = %v", err)
	}

	want := []int16{1, -1, 2, -2, 3, -3}
	got := src.Samples()
	if len(got) != len(want) {
		t.Fatalf("len(Samples()) = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Samples()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if src.FrameCount() != 3 {
		t.Errorf("FrameCount() = %d, want 3", src.FrameCount())
	}
}

func TestDecodeAll_ScalesBitDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		in       int32
		want     int16
	}{
		{"8-bit", 8, -128, -32768},
		{"12-bit", 12, 1, 16},
		{"20-bit", 20, 16, 1},
		{"24-bit", 24, 8388607, 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rd := &mockFrameReader{frames: []*frame.Frame{newFrame([]int32{tt.in})}}

			src, err := decodeAll(rd, streamFormat{channels: 1, sampleRate: 8000, bitDepth: tt.bitDepth})
			if err != nil {
				t.Fatalf("decodeAll() error = %v", err)
			}

			if got := src.Samples()[0]; got != tt.want {
				t.Errorf("sample = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeAll_Errors(t *testing.T) {
	t.Parallel()

	stereo := streamFormat{channels: 2, sampleRate: 8000, bitDepth: 16}

	tests := []struct {
		name   string
		rd     *mockFrameReader
		format streamFormat
		want   error
	}{
		{"no channels", &mockFrameReader{}, streamFormat{sampleRate: 8000, bitDepth: 16}, ErrInvalidFlac},
		{"bad depth", &mockFrameReader{}, streamFormat{channels: 1, sampleRate: 8000, bitDepth: 40}, ErrUnsupportedBitDepth},
		{"channel mismatch", &mockFrameReader{frames: []*frame.Frame{newFrame([]int32{1})}}, stereo, ErrInvalidFlac},
		{"uneven subframes", &mockFrameReader{frames: []*frame.Frame{newFrame([]int32{1, 2}, []int32{1})}}, stereo, ErrInvalidFlac},
		{"parse failure", &mockFrameReader{err: io.ErrUnexpectedEOF}, stereo, ErrInvalidFlac},
		{"no frames", &mockFrameReader{}, stereo, ErrInvalidFlac},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeAll(tt.rd, tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("decodeAll() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, audio.ErrInvalidResource) {
				t.Errorf("decodeAll() error = %v, want audio.ErrInvalidResource", err)
			}
		})
	}
}
