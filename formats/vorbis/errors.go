// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"

	"github.com/ik5/retromix/audio"
)

var (
	ErrNotOggFile      = fmt.Errorf("not an Ogg file: %w", audio.ErrUnrecognized)
	ErrInvalidVorbis   = fmt.Errorf("invalid Vorbis stream: %w", audio.ErrInvalidResource)
	ErrEmptyVorbisData = fmt.Errorf("Vorbis stream has no samples: %w", audio.ErrInvalidResource)
)
