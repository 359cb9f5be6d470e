// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

type archiveEntry struct {
	Name string
	Mode cpio.FileMode
	Body string
}

func readArchive(t *testing.T, r io.Reader) []archiveEntry {
	t.Helper()

	var entries []archiveEntry

	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		body, err := io.ReadAll(reader)
		require.NoError(t, err)

		entries = append(entries, archiveEntry{
			Name: hdr.Name,
			Mode: hdr.Mode,
			Body: string(body),
		})
	}

	return entries
}

func readGzipArchive(t *testing.T, path string) []archiveEntry {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)

	defer file.Close()

	reader, err := gzip.NewReader(file)
	require.NoError(t, err)

	defer reader.Close()

	return readArchive(t, reader)
}

func writeXZFile(t *testing.T, path, content string) {
	t.Helper()

	var buf bytes.Buffer

	writer, err := xz.NewWriter(&buf)
	require.NoError(t, err)

	_, err = writer.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
