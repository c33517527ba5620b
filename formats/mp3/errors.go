// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"

	"github.com/ik5/retromix/audio"
)

var (
	ErrNotMP3File   = fmt.Errorf("not an MP3 stream: %w", audio.ErrUnrecognized)
	ErrInvalidMP3   = fmt.Errorf("invalid MP3 stream: %w", audio.ErrInvalidResource)
	ErrEmptyMP3Data = fmt.Errorf("MP3 stream has no samples: %w", audio.ErrInvalidResource)
)
