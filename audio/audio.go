// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Source is an immutable buffer of decoded, interleaved 16-bit PCM.
//
// A Source is referenced by any number of playing sounds and is never
// modified after creation, so it is safe to share between goroutines.
type Source struct {
	channels   int
	sampleRate int
	samples    []int16
}

// NewSource creates a Source from interleaved samples. The slice is copied.
//
// channels must be at least 1 and samples must hold at least one whole frame;
// a trailing partial frame is dropped.
func NewSource(channels, sampleRate int, samples []int16) (*Source, error) {
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidArgument, channels, sampleRate)
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%w: no complete frames", ErrInvalidArgument)
	}

	data := make([]int16, frames*channels)
	copy(data, samples)

	return &Source{
		channels:   channels,
		sampleRate: sampleRate,
		samples:    data,
	}, nil
}

// Wrap builds a Source that takes ownership of samples. Callers must not
// modify samples afterwards. Decoders use this to avoid a second copy.
func Wrap(channels, sampleRate int, samples []int16) (*Source, error) {
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: channels=%d sampleRate=%d", ErrInvalidArgument, channels, sampleRate)
	}

	frames := len(samples) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%w: no complete frames", ErrInvalidArgument)
	}

	return &Source{
		channels:   channels,
		sampleRate: sampleRate,
		samples:    samples[:frames*channels],
	}, nil
}

// Channels count (e.g., 1=mono, 2=stereo).
func (s *Source) Channels() int { return s.channels }

// SampleRate of the PCM data in Hz. The mixer does not resample.
func (s *Source) SampleRate() int { return s.sampleRate }

// SampleCount is the total number of interleaved samples.
func (s *Source) SampleCount() int { return len(s.samples) }

// FrameCount is the number of frames (samples per channel).
func (s *Source) FrameCount() int { return len(s.samples) / s.channels }

// Samples returns the underlying interleaved buffer. It must be treated as
// read-only.
func (s *Source) Samples() []int16 { return s.samples }

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (*Source, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(r io.Reader) (*Source, error)

func (f DecoderFunc) Decode(r io.Reader) (*Source, error) { return f(r) }

type namedDecoder struct {
	name string
	dec  Decoder
}

// Chain tries decoders in registration order. The first decoder that
// recognizes the header owns the data: its result, success or failure, is
// returned and later decoders never see the input.
type Chain struct {
	decoders []namedDecoder

	mtx *sync.Mutex
}

func NewChain() *Chain {
	return &Chain{
		mtx: &sync.Mutex{},
	}
}

// Register appends d to the end of the try order. Registering a name twice
// replaces the earlier decoder in place.
func (c *Chain) Register(name string, d Decoder) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for i := range c.decoders {
		if c.decoders[i].name == name {
			c.decoders[i].dec = d
			return
		}
	}

	c.decoders = append(c.decoders, namedDecoder{name: name, dec: d})
}

func (c *Chain) Get(name string) (Decoder, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for _, nd := range c.decoders {
		if nd.name == name {
			return nd.dec, true
		}
	}

	return nil, false
}

// Names returns the registered decoder names in try order.
func (c *Chain) Names() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	names := make([]string, len(c.decoders))
	for i, nd := range c.decoders {
		names[i] = nd.name
	}

	return names
}

// Decode runs data through the chain. It returns the name of the decoder
// that produced the Source.
func (c *Chain) Decode(data []byte) (*Source, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}

	c.mtx.Lock()
	decoders := make([]namedDecoder, len(c.decoders))
	copy(decoders, c.decoders)
	c.mtx.Unlock()

	for _, nd := range decoders {
		src, err := nd.dec.Decode(bytes.NewReader(data))
		if err == nil {
			return src, nd.name, nil
		}

		if errors.Is(err, ErrUnrecognized) {
			continue
		}

		return nil, nd.name, fmt.Errorf("%s: %w", nd.name, err)
	}

	return nil, "", ErrUnsupportedFormat
}
