// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/retromix/audio"
)

// go-mp3 always produces interleaved stereo.
const outputChannels = 2

const readChunk = 8192

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// looksLikeMP3 accepts an ID3v2 tag or an MPEG audio frame sync.
func looksLikeMP3(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}

	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !looksLikeMP3(data) {
		return nil, ErrNotMP3File
	}

	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMP3, err)
	}

	return decodeAll(dec)
}

// decodeAll drains rd, which yields 16-bit little-endian stereo bytes.
func decodeAll(rd mp3Reader) (*audio.Source, error) {
	sampleRate := rd.SampleRate()
	if sampleRate < 1 {
		return nil, fmt.Errorf("%w: sampleRate=%d", ErrInvalidMP3, sampleRate)
	}

	var pcm []byte
	buf := make([]byte, readChunk)

	for {
		n, err := rd.Read(buf)
		pcm = append(pcm, buf[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMP3, err)
		}
		if n == 0 {
			break
		}
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}

	if len(samples) < outputChannels {
		return nil, ErrEmptyMP3Data
	}

	src, err := audio.Wrap(outputChannels, sampleRate, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMP3, err)
	}

	return src, nil
}
