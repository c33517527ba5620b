// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"

	"github.com/ik5/retromix/audio"
)

var (
	// ErrNotAiffFile indicates the input lacks a FORM/AIFF or FORM/AIFC header
	ErrNotAiffFile = fmt.Errorf("not an AIFF file: %w", audio.ErrUnrecognized)

	// ErrUnsupportedBitDepth indicates a sample size other than 8, 16, 24 or 32 bits
	ErrUnsupportedBitDepth = fmt.Errorf("unsupported AIFF bit depth: %w", audio.ErrInvalidResource)

	// ErrUnsupportedAiffLayout indicates broken or missing COMM/SSND chunks
	ErrUnsupportedAiffLayout = fmt.Errorf("unsupported AIFF layout: %w", audio.ErrInvalidResource)
)
