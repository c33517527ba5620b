// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/utils"
	"github.com/jfreymuth/oggvorbis"
)

const readChunk = 4096

var oggMagic = []byte("OggS")

// oggReader is an interface for oggvorbis.Reader to allow testing.
// Read returns the number of interleaved values decoded.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !bytes.HasPrefix(data, oggMagic) {
		return nil, ErrNotOggFile
	}

	dec, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVorbis, err)
	}

	return decodeAll(dec)
}

// decodeAll drains rd and converts every value to int16.
func decodeAll(rd oggReader) (*audio.Source, error) {
	channels := rd.Channels()
	sampleRate := rd.SampleRate()
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidVorbis, channels, sampleRate)
	}

	buf := make([]float32, readChunk*channels)
	samples := make([]int16, 0, len(buf))

	for {
		n, err := rd.Read(buf)
		for _, v := range buf[:n] {
			samples = append(samples, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidVorbis, err)
		}
		if n == 0 {
			break
		}
	}

	if len(samples) < channels {
		return nil, ErrEmptyVorbisData
	}

	src, err := audio.Wrap(channels, sampleRate, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVorbis, err)
	}

	return src, nil
}
