// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned if help or version output was requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the build information can not be read
	// from the binary.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrValueOutOfRange is returned if a numeric flag value is outside of
	// its allowed range.
	ErrValueOutOfRange = errors.New("value is outside of range")

	// ErrUnknownCompressor is returned if the compressor flag names no known
	// compressor.
	ErrUnknownCompressor = errors.New("unknown compressor")

	// ErrPresetPositional is returned if the arguments from environment or
	// local config file contain non-flag arguments.
	ErrPresetPositional = errors.New("only flags allowed")

	// ErrEmptyCommand is returned if a command flag is given without any
	// program.
	ErrEmptyCommand = errors.New("command must not be empty")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (*ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
