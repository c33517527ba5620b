// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"

	"github.com/ik5/retromix/audio"
)

var (
	ErrNotFlacFile         = fmt.Errorf("not a FLAC stream: %w", audio.ErrUnrecognized)
	ErrInvalidFlac         = fmt.Errorf("invalid FLAC stream: %w", audio.ErrInvalidResource)
	ErrUnsupportedBitDepth = fmt.Errorf("unsupported FLAC bit depth: %w", audio.ErrInvalidResource)
)
