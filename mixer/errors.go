// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a nil source, a short output buffer or a
	// bad channel count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidGroup indicates a group id outside the group table.
	ErrInvalidGroup = fmt.Errorf("invalid group: %w", ErrInvalidArgument)

	// ErrNotFound indicates the instance is not in the registry.
	ErrNotFound = errors.New("instance not found")
)
