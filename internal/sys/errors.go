// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNotRegularFile is returned if a path is expected to be a regular file
	// but is not.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNotDirectory is returned if a path is expected to be a directory but
	// is not.
	ErrNotDirectory = errors.New("not a directory")

	// ErrEmptyCommand is returned if a command has no executable.
	ErrEmptyCommand = errors.New("command must not be empty")
)
