// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

var flacMagic = []byte("fLaC")

// frameReader is an interface for flac.Stream to allow testing
type frameReader interface {
	ParseNext() (*frame.Frame, error)
}

// streamFormat is what the STREAMINFO block tells us.
type streamFormat struct {
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

	if !bytes.HasPrefix(data, flacMagic) {
		return nil, ErrNotFlacFile
	}

	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFlac, err)
	}
	defer stream.Close()

	format := streamFormat{
		channels:   int(stream.Info.NChannels),
		sampleRate: int(stream.Info.SampleRate),
		bitDepth:   int(stream.Info.BitsPerSample),
	}

	return decodeAll(stream, format)
}

// decodeAll interleaves every frame's subframes and scales them to 16 bits.
func decodeAll(rd frameReader, format streamFormat) (*audio.Source, error) {
	if format.channels < 1 || format.sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidFlac, format.channels, format.sampleRate)
	}
	if format.bitDepth < 4 || format.bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, format.bitDepth)
	}

	var samples []int16

	for {
		f, err := rd.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFlac, err)
		}

		if len(f.Subframes) != format.channels {
			return nil, fmt.Errorf("%w: frame has %d subframes, stream has %d channels",
				ErrInvalidFlac, len(f.Subframes), format.channels)
		}

		n := len(f.Subframes[0].Samples)
		for _, sub := range f.Subframes[1:] {
			if len(sub.Samples) != n {
				return nil, fmt.Errorf("%w: uneven subframe lengths", ErrInvalidFlac)
			}
		}

		for i := range n {
			for _, sub := range f.Subframes {
				samples = append(samples, utils.IntToInt16(int(sub.Samples[i]), format.bitDepth))
			}
		}
	}

	src, err := audio.Wrap(format.channels, format.sampleRate, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFlac, err)
	}

	return src, nil
}
