// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrInvalidArgument indicates a nil, empty or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidResource indicates a recognized container whose contents
	// are malformed or truncated.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrUnsupportedFormat is returned by Chain.Decode when no decoder
	// recognizes the data.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnrecognized is returned by a decoder whose header check fails.
	// The chain moves on to the next decoder when it sees this error.
	ErrUnrecognized = errors.New("unrecognized header")
)
