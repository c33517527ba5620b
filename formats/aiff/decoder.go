// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/utils"
)

const readChunk = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

func isAiff(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[:4], []byte("FORM")) {
		return false
	}

	form := string(data[8:12])

	return form == "AIFF" || form == "AIFC"
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	if !isAiff(data) {
		return nil, ErrNotAiffFile
	}

	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrUnsupportedAiffLayout
	}

	dec.ReadInfo()

	return decodeAll(dec, int(dec.BitDepth))
}

// decodeAll drains rd and scales every sample from bitDepth to 16 bits.
func decodeAll(rd aiffReader, bitDepth int) (*audio.Source, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := rd.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	intBuf := &goaudio.IntBuffer{
		Data:           make([]int, readChunk*format.NumChannels),
		Format:         format,
		SourceBitDepth: bitDepth,
	}

	var samples []int16

	for {
		n, err := rd.PCMBuffer(intBuf)
		for _, v := range intBuf.Data[:n] {
			samples = append(samples, utils.IntToInt16(v, bitDepth))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
		}
		if n == 0 {
			break
		}
	}

	src, err := audio.Wrap(format.NumChannels, format.SampleRate, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return src, nil
}
