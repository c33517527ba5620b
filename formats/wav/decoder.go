// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/utils"
)

// WAVE format tags.
const (
	formatPCM        = 0x0001
	formatIEEEFloat  = 0x0003
	formatALaw       = 0x0006
	formatMuLaw      = 0x0007
	formatExtensible = 0xFFFE
)

const (
	extensibleFmtSize = 40
	subFormatOffset   = 24
)

// wavHeader is the subset of go-audio's decoder state the converter needs.
type wavHeader struct {
	format     uint16
	channels   int
	sampleRate int
	bitDepth   int
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if len(data) < 12 || !bytes.HasPrefix(data[:4], []byte("RIFF")) || !bytes.HasPrefix(data[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	dec := gowav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	hdr := wavHeader{
		format:     dec.WavAudioFormat,
		channels:   int(dec.NumChans),
		sampleRate: int(dec.SampleRate),
		bitDepth:   int(dec.BitDepth),
	}
	if hdr.channels < 1 || hdr.sampleRate < 1 || hdr.bitDepth < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	if hdr.format == formatExtensible {
		fmtChunk, _, ok := findChunk(data, "fmt ")
		if !ok || len(fmtChunk) < extensibleFmtSize {
			return nil, fmt.Errorf("%w: short extensible fmt chunk", ErrUnsupportedWavLayout)
		}

		// The first two bytes of the SubFormat GUID carry the real tag.
		hdr.format = binary.LittleEndian.Uint16(fmtChunk[subFormatOffset:])
	}

	raw, declared, ok := findChunk(data, "data")
	if !ok {
		return nil, fmt.Errorf("%w: no data chunk", ErrUnsupportedWavLayout)
	}
	if len(raw) < declared {
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedWavData, len(raw), declared)
	}

	samples, err := convert(hdr, raw)
	if err != nil {
		return nil, err
	}

	src, err := audio.Wrap(hdr.channels, hdr.sampleRate, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidResource, err)
	}

	return src, nil
}

// convert turns raw data chunk bytes into int16 samples according to hdr.
func convert(hdr wavHeader, raw []byte) ([]int16, error) {
	bytesPerSample := (hdr.bitDepth + 7) / 8

	switch hdr.format {
	case formatPCM:
		switch hdr.bitDepth {
		case 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedWavEncoding, hdr.bitDepth)
		}
	case formatIEEEFloat:
		if hdr.bitDepth != 32 && hdr.bitDepth != 64 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedWavEncoding, hdr.bitDepth)
		}
	case formatALaw, formatMuLaw:
		if hdr.bitDepth != 8 {
			return nil, fmt.Errorf("%w: %d-bit companded", ErrUnsupportedWavEncoding, hdr.bitDepth)
		}
	default:
		return nil, fmt.Errorf("%w: format tag 0x%04X", ErrUnsupportedWavEncoding, hdr.format)
	}

	count := len(raw) / bytesPerSample
	samples := make([]int16, count)

	switch {
	case hdr.format == formatALaw:
		for i := range count {
			samples[i] = utils.ALawToInt16(raw[i])
		}
	case hdr.format == formatMuLaw:
		for i := range count {
			samples[i] = utils.MuLawToInt16(raw[i])
		}
	case hdr.format == formatIEEEFloat && hdr.bitDepth == 32:
		for i := range count {
			bits := binary.LittleEndian.Uint32(raw[4*i:])
			samples[i] = utils.Float32ToInt16(math.Float32frombits(bits))
		}
	case hdr.format == formatIEEEFloat:
		for i := range count {
			bits := binary.LittleEndian.Uint64(raw[8*i:])
			samples[i] = utils.Float64ToInt16(math.Float64frombits(bits))
		}
	case hdr.bitDepth == 8:
		for i := range count {
			samples[i] = utils.U8ToInt16(raw[i])
		}
	case hdr.bitDepth == 16:
		for i := range count {
			samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}
	case hdr.bitDepth == 24:
		for i := range count {
			b := raw[3*i:]
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			samples[i] = utils.S24ToInt16(v)
		}
	default:
		for i := range count {
			samples[i] = utils.S32ToInt16(int32(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	}

	return samples, nil
}

// findChunk returns the body of the first top-level chunk with the given id
// and its declared size. The body is cut to the declared size, so an odd
// chunk's pad byte is never part of it, and to the bytes actually present.
func findChunk(data []byte, id string) ([]byte, int, bool) {
	off := 12
	for off+8 <= len(data) {
		size := int(binary.LittleEndian.Uint32(data[off+4:]))
		start := off + 8

		if string(data[off:off+4]) == id {
			end := start + min(size, len(data)-start)
			return data[start:end], size, true
		}

		if size > len(data)-start {
			break
		}
		off = start + size + size&1
	}

	return nil, 0, false
}
