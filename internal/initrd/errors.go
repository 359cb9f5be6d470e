// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import "errors"

// Build stages reported by [ArtifactBuildError].
const (
	StagePrepare  = "prepare"
	StageArchive  = "archive"
	StageCompress = "compress"
	StageFinalize = "finalize"
)

var (
	// ErrUnknownCompressor is returned if a compressor name is not known.
	ErrUnknownCompressor = errors.New("unknown compressor")

	// ErrUnknownCompression is returned if a module file has a compression
	// suffix that can not be decompressed.
	ErrUnknownCompression = errors.New("unknown compression")

	// ErrNotRegularFile is returned if a manifest source is not a regular
	// file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrEmptyPath is returned if a required path is not given.
	ErrEmptyPath = errors.New("path must not be empty")
)

// ArtifactBuildError is returned if building the initrd fails. No output file
// exists in this case.
type ArtifactBuildError struct {
	Stage string
	Err   error
}

// Error implements the [error] interface.
func (e *ArtifactBuildError) Error() string {
	return "build initrd (" + e.Stage + "): " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ArtifactBuildError) Is(other error) bool {
	_, ok := other.(*ArtifactBuildError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ArtifactBuildError) Unwrap() error {
	return e.Err
}
