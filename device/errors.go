// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNoBackend              = errors.New("no usable audio backend")
	ErrApiNotFound            = errors.New("audio API not found")
	ErrFormatNotSupported     = errors.New("sample format not supported")
	ErrDeviceTypeNotSupported = errors.New("device type not supported")

	// ErrFailedToCreateThread is kept for parity with the error taxonomy;
	// spawning a goroutine cannot fail.
	ErrFailedToCreateThread = errors.New("failed to create worker")

	ErrBusy            = errors.New("device is busy")
	ErrAlreadyStarted  = errors.New("device already started")
	ErrAlreadyStarting = errors.New("device already starting")
	ErrAlreadyStopped  = errors.New("device already stopped")
	ErrAlreadyStopping = errors.New("device already stopping")
	ErrNotInitialized  = errors.New("device not initialized")

	ErrFailedToMapDeviceBuffer    = errors.New("failed to map device buffer")
	ErrFailedToStartBackendDevice = errors.New("failed to start backend device")
	ErrFailedToStopBackendDevice  = errors.New("failed to stop backend device")
)
