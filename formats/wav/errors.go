// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"

	"github.com/ik5/retromix/audio"
)

var (
	ErrNotWavFile             = fmt.Errorf("not a WAV file: %w", audio.ErrUnrecognized)
	ErrUnsupportedWavLayout   = fmt.Errorf("unsupported WAV layout: %w", audio.ErrInvalidResource)
	ErrUnsupportedWavEncoding = fmt.Errorf("unsupported WAV encoding: %w", audio.ErrInvalidResource)
	ErrTruncatedWavData       = fmt.Errorf("truncated WAV data: %w", audio.ErrInvalidResource)
)
