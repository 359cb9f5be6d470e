// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Archiver writes the uncompressed archive for the given entries.
type Archiver interface {
	Archive(ctx context.Context, w io.Writer, entries []Entry) error
}

// CPIOArchiver is an [Archiver] producing a cpio archive.
type CPIOArchiver struct {
	// SourceFS is used to read entry sources. Sources are resolved relative
	// to its root with any leading "/" removed. Defaults to the host root.
	SourceFS fs.FS
}

var _ Archiver = (*CPIOArchiver)(nil)

// Archive implements [Archiver].
func (a *CPIOArchiver) Archive(
	ctx context.Context,
	w io.Writer,
	entries []Entry,
) error {
	writer := NewCPIOWriter(w)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := a.writeEntry(writer, entry); err != nil {
			return fmt.Errorf("%s: %w", entry.Path, err)
		}
	}

	return writer.Close()
}

func (a *CPIOArchiver) writeEntry(writer *CPIOWriter, entry Entry) error {
	switch {
	case entry.IsDir():
		return writer.WriteDirectory(entry.Path, entry.Mode)
	case entry.Source == "":
		return writer.WriteRegular(entry.Path, bytes.NewReader(entry.Body),
			int64(len(entry.Body)), entry.Mode)
	}

	source, err := a.sourceFS().Open(strings.TrimPrefix(entry.Source, "/"))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, entry.Source)
	}

	if entry.Compression == "" {
		return writer.WriteRegular(entry.Path, source, info.Size(), entry.Mode)
	}

	// The cpio header needs the size up front, so compressed content is
	// decompressed into memory first. Kernel modules are small enough.
	reader, err := decompress(source, entry.Compression)
	if err != nil {
		return err
	}
	defer reader.Close()

	var body bytes.Buffer

	if _, err := io.Copy(&body, reader); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	return writer.WriteRegular(entry.Path, &body, int64(body.Len()), entry.Mode)
}

func (a *CPIOArchiver) sourceFS() fs.FS {
	if a.SourceFS != nil {
		return a.SourceFS
	}

	return os.DirFS("/")
}
