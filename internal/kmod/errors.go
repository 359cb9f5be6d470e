// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kmod

import "errors"

var (
	// ErrModuleNotFound is returned if a module is not known to the metadata
	// source.
	ErrModuleNotFound = errors.New("module not found")

	// ErrMalformedIndex is returned if a module index line can not be parsed.
	ErrMalformedIndex = errors.New("malformed module index")
)

// ResolutionError is returned if module dependencies can not be resolved.
type ResolutionError struct {
	Module string
	Err    error
}

// Error implements the [error] interface.
func (e *ResolutionError) Error() string {
	msg := "resolve modules"
	if e.Module != "" {
		msg += " [" + e.Module + "]"
	}

	return msg + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ResolutionError) Is(other error) bool {
	_, ok := other.(*ResolutionError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
