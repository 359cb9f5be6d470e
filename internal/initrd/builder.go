// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/aibor/sandboxvm/internal/kmod"
	"github.com/aibor/sandboxvm/internal/sys"
)

const outputMode = 0o644

// Spec describes an initrd to build.
type Spec struct {
	// Modules to insert, in load order.
	Modules []kmod.Module

	// Busybox is the path of the busybox binary.
	Busybox string

	// Output is the path the compressed initrd is written to.
	Output string
}

// Builder builds initrd files.
type Builder struct {
	Archiver   Archiver
	Compressor Compressor
}

// NewBuilder returns a [Builder] producing cpio archives compressed with the
// given compressor.
func NewBuilder(compressor Compressor) *Builder {
	return &Builder{
		Archiver:   &CPIOArchiver{},
		Compressor: compressor,
	}
}

// Build writes the initrd described by spec, unless the output file exists
// already. An existing file is used as is, its content is not validated.
//
// The archive is written to a temporary file next to the output and renamed
// only after both stages succeeded. On failure an [ArtifactBuildError] is
// returned and no file is left at the output path.
func (b *Builder) Build(ctx context.Context, spec Spec) (err error) {
	if spec.Output == "" || spec.Busybox == "" {
		return &ArtifactBuildError{Stage: StagePrepare, Err: ErrEmptyPath}
	}

	exists, err := sys.Exists(spec.Output)
	if err != nil {
		return &ArtifactBuildError{Stage: StagePrepare, Err: err}
	}

	if exists {
		slog.Debug("Initrd cache hit", slog.String("path", spec.Output))
		return nil
	}

	entries := Manifest(spec.Busybox, InitScript(spec.Modules), spec.Modules)

	tmpFile, err := os.CreateTemp(
		filepath.Dir(spec.Output),
		"."+filepath.Base(spec.Output)+".*",
	)
	if err != nil {
		return &ArtifactBuildError{Stage: StagePrepare, Err: err}
	}

	defer func() {
		if err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpFile.Name())
		}
	}()

	err = b.pipe(ctx, tmpFile, entries)
	if err != nil {
		return err
	}

	err = finalize(tmpFile, spec.Output)
	if err != nil {
		return &ArtifactBuildError{Stage: StageFinalize, Err: err}
	}

	slog.Debug("Initrd built",
		slog.String("path", spec.Output),
		slog.Int("entries", len(entries)),
	)

	return nil
}

// pipe runs archiver and compressor concurrently. Each stage closes its end
// of the pipe with its result, so the other stage stops as soon as one fails.
// A stage failing only because its peer failed reports the peer's error.
func (b *Builder) pipe(ctx context.Context, dst io.Writer, entries []Entry) error {
	reader, writer := io.Pipe()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := stageError(StageArchive, b.Archiver.Archive(ctx, writer, entries))
		_ = writer.CloseWithError(err)

		return err
	})

	group.Go(func() error {
		err := b.Compressor.Compress(ctx, dst, reader)
		if err == nil {
			// Make sure the archiver does not block on a compressor that
			// returned without consuming everything.
			err = drained(reader)
		}

		err = stageError(StageCompress, err)
		_ = reader.CloseWithError(err)

		return err
	})

	return group.Wait() //nolint:wrapcheck
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}

	var peerErr *ArtifactBuildError
	if errors.As(err, &peerErr) {
		return peerErr
	}

	return &ArtifactBuildError{Stage: stage, Err: err}
}

var errIncompleteRead = errors.New("compressor did not consume all input")

func drained(reader io.Reader) error {
	n, err := reader.Read(make([]byte, 1))
	if n > 0 {
		return errIncompleteRead
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return err //nolint:wrapcheck
	}

	return nil
}

func finalize(file *os.File, path string) error {
	if err := file.Chmod(outputMode); err != nil {
		return err //nolint:wrapcheck
	}

	if err := file.Sync(); err != nil {
		return err //nolint:wrapcheck
	}

	if err := file.Close(); err != nil {
		return err //nolint:wrapcheck
	}

	return os.Rename(file.Name(), path) //nolint:wrapcheck
}
