// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vm

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidMemory is returned if the memory size is not positive.
	ErrInvalidMemory = errors.New("memory must be positive")

	// ErrDaemonExited is returned if a daemon exited before it was ready.
	ErrDaemonExited = errors.New("daemon exited")

	// ErrDaemonNotReady is returned if a daemon socket did not become ready
	// in time.
	ErrDaemonNotReady = errors.New("daemon not ready")

	// ErrDaemonNotStarted is returned if a daemon is used before it was
	// started.
	ErrDaemonNotStarted = errors.New("daemon not started")

	// ErrNotSocket is returned if a daemon's socket path exists but is not a
	// socket.
	ErrNotSocket = errors.New("not a socket")
)

// LaunchError is returned if the guest could not be launched or QEMU exited
// with non-zero exit code.
type LaunchError struct {
	// Op is the step that failed.
	Op string

	// ExitCode of QEMU if it exited non-zero, -1 otherwise.
	ExitCode int

	Err error
}

// Error implements the [error] interface.
func (e *LaunchError) Error() string {
	msg := "launch " + e.Op
	if e.ExitCode > 0 {
		msg += " (exit code " + strconv.Itoa(e.ExitCode) + ")"
	}

	return msg + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*LaunchError) Is(other error) bool {
	_, ok := other.(*LaunchError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LaunchError) Unwrap() error {
	return e.Err
}
