// SPDX-License-Identifier: EPL-2.0

package retromix

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/retromix/audio"
	"github.com/ik5/retromix/formats/aiff"
	"github.com/ik5/retromix/formats/flac"
	"github.com/ik5/retromix/formats/mp3"
	"github.com/ik5/retromix/formats/vorbis"
	"github.com/ik5/retromix/formats/wav"
)

// DefaultChain returns the decoders in priority order: WAV, FLAC, Vorbis,
// AIFF and MP3. MP3 goes last because its frame sync check is the easiest
// to satisfy by accident.
func DefaultChain() *audio.Chain {
	chain := audio.NewChain()
	chain.Register("wav", wav.Decoder{})
	chain.Register("flac", flac.Decoder{})
	chain.Register("vorbis", vorbis.Decoder{})
	chain.Register("aiff", aiff.Decoder{})
	chain.Register("mp3", mp3.Decoder{})

	return chain
}

// NewSource registers a source built from interleaved samples.
func (e *Engine) NewSource(channels, sampleRate int, samples []int16) (*audio.Source, error) {
	src, err := audio.NewSource(channels, sampleRate, samples)
	if err != nil {
		return nil, err
	}

	e.track(src, "memory")

	return src, nil
}

// DecodeSource decodes a whole file image with the engine's decoder chain.
func (e *Engine) DecodeSource(data []byte) (*audio.Source, error) {
	src, name, err := e.chain.Decode(data)
	if err != nil {
		return nil, err
	}

	e.track(src, name)

	return src, nil
}

// LoadSource reads and decodes the file at path.
func (e *Engine) LoadSource(path string) (*audio.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	src, err := e.DecodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return src, nil
}

// LoadSources loads paths concurrently. The result keeps the order of
// paths. The first failure cancels the remaining loads and nothing is
// registered.
func (e *Engine) LoadSources(ctx context.Context, paths ...string) ([]*audio.Source, error) {
	srcs := make([]*audio.Source, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			src, name, err := e.chain.Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}

			e.log.Debug("decoded source", "path", path, "decoder", name)
			srcs[i] = src

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, src := range srcs {
		e.track(src, "")
	}

	return srcs, nil
}

// DeleteSource forgets src. It fails with ErrSourceInUse while any sound
// still references it, so sounds never outlive their data.
func (e *Engine) DeleteSource(src *audio.Source) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if _, ok := e.sources[src]; !ok {
		return ErrUnknownSource
	}

	if e.mixer.References(src) {
		return ErrSourceInUse
	}

	delete(e.sources, src)

	return nil
}

func (e *Engine) track(src *audio.Source, decoder string) {
	e.mtx.Lock()
	e.sources[src] = struct{}{}
	e.mtx.Unlock()

	if src.SampleRate() != e.sampleRate {
		e.log.Warn("source rate differs from device rate, pitch will shift",
			"source_rate", src.SampleRate(), "device_rate", e.sampleRate)
	}

	if decoder != "" {
		e.log.Debug("source ready", "decoder", decoder,
			"channels", src.Channels(), "frames", src.FrameCount())
	}
}

func (e *Engine) tracked(src *audio.Source) bool {
	_, ok := e.sources[src]
	return ok
}
