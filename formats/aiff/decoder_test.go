// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/retromix/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	samplesToRead := min(len(buf.Data), len(m.samples)-m.offset)

	copy(buf.Data, m.samples[m.offset:m.offset+samplesToRead])
	m.offset += samplesToRead

	return samplesToRead, nil
}

func TestDecoder_NotAiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not AIFF data")},
		{"form of other type", []byte("FORM\x00\x00\x00\x04WAVE")},
		{"short", []byte("FORM")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}

			if !errors.Is(err, audio.ErrUnrecognized) {
				t.Errorf("Decode() error = %v, want audio.ErrUnrecognized", err)
			}
		})
	}
}

func TestIsAiff(t *testing.T) {
	t.Parallel()

	if !isAiff([]byte("FORM\x00\x00\x00\x00AIFF")) {
		t.Error("isAiff(AIFF) = false, want true")
	}

	if !isAiff([]byte("FORM\x00\x00\x00\x00AIFC")) {
		t.Error("isAiff(AIFC) = false, want true")
	}

	if isAiff([]byte("RIFF\x00\x00\x00\x00AIFF")) {
		t.Error("isAiff(RIFF) = true, want false")
	}
}

func TestDecodeAll_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		in       []int
		want     []int16
	}{
		{"8-bit", 8, []int{-128, 0, 127}, []int16{-32768, 0, 32512}},
		{"16-bit", 16, []int{-32768, 1, 32767}, []int16{-32768, 1, 32767}},
		{"24-bit", 24, []int{-8388608, 256, 8388607}, []int16{-32768, 1, 32767}},
		{"32-bit", 32, []int{-2147483648, 65536, 2147483647}, []int16{-32768, 1, 32767}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := decodeAll(&mockAiffReader{sampleRate: 8000, channels: 1, samples: tt.in}, tt.bitDepth)
			if err != nil {
				t.Fatalf("decodeAll() error = %v", err)
			}

			got := src.Samples()
			if len(got) != len(tt.want) {
				t.Fatalf("len(Samples()) = %d, want %d", len(got), len(tt.want))
			}

			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Samples()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeAll_MultipleReads(t *testing.T) {
	t.Parallel()

	in := make([]int, readChunk*2*3+4)
	for i := range in {
		in[i] = i % 1000
	}

	src, err := decodeAll(&mockAiffReader{sampleRate: 48000, channels: 2, samples: in}, 16)
	if err != nil {
		t.Fatalf("decodeAll() error = %v", err)
	}

	if src.Channels() != 2 || src.SampleRate() != 48000 {
		t.Errorf("format = %d ch @ %d Hz, want 2 ch @ 48000 Hz", src.Channels(), src.SampleRate())
	}

	if src.SampleCount() != len(in) {
		t.Errorf("SampleCount() = %d, want %d", src.SampleCount(), len(in))
	}
}

func TestDecodeAll_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rd       *mockAiffReader
		bitDepth int
		want     error
	}{
		{"12-bit", &mockAiffReader{sampleRate: 8000, channels: 1, samples: []int{1}}, 12, ErrUnsupportedBitDepth},
		{"read error", &mockAiffReader{sampleRate: 8000, channels: 1, returnErrors: true}, 16, ErrUnsupportedAiffLayout},
		{"no channels", &mockAiffReader{sampleRate: 8000, samples: []int{1}}, 16, ErrUnsupportedAiffLayout},
		{"empty", &mockAiffReader{sampleRate: 8000, channels: 1}, 16, ErrUnsupportedAiffLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeAll(tt.rd, tt.bitDepth)
			if !errors.Is(err, tt.want) {
				t.Errorf("decodeAll() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, audio.ErrInvalidResource) {
				t.Errorf("decodeAll() error = %v, want audio.ErrInvalidResource", err)
			}
		})
	}
}

func TestErrors_Uniqueness(t *testing.T) {
	t.Parallel()

	errs := []error{ErrNotAiffFile, ErrUnsupportedBitDepth, ErrUnsupportedAiffLayout}

	for i := range errs {
		for j := range errs {
			if i != j && errors.Is(errs[i], errs[j]) {
				t.Errorf("%v matches %v", errs[i], errs[j])
			}
		}
	}
}
