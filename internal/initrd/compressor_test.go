// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aibor/sandboxvm/internal/initrd"
	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestNewCompressor(t *testing.T) {
	tests := []struct {
		name       string
		decompress func(io.Reader) (io.Reader, error)
	}{
		{
			name: initrd.CompressorGzip,
			decompress: func(r io.Reader) (io.Reader, error) {
				return gzip.NewReader(r)
			},
		},
		{
			name: initrd.CompressorZstd,
			decompress: func(r io.Reader) (io.Reader, error) {
				decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
				if err != nil {
					return nil, err
				}

				t.Cleanup(decoder.Close)

				return decoder, nil
			},
		},
		{
			name: initrd.CompressorXZ,
			decompress: func(r io.Reader) (io.Reader, error) {
				return xz.NewReader(r)
			},
		},
	}

	input := strings.Repeat("initrd content ", 1000)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressor, err := initrd.NewCompressor(tt.name)
			require.NoError(t, err)

			var compressed bytes.Buffer

			err = compressor.Compress(context.Background(), &compressed, strings.NewReader(input))
			require.NoError(t, err)
			assert.Less(t, compressed.Len(), len(input))

			reader, err := tt.decompress(&compressed)
			require.NoError(t, err)

			actual, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, input, string(actual))
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := initrd.NewCompressor("lz4")
		require.ErrorIs(t, err, initrd.ErrUnknownCompressor)
	})
}

func TestCommandCompressor(t *testing.T) {
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		compressor := &initrd.Command{
			Name: sys.WriteExecutable(t, dir, "upper", `tr a-z A-Z`),
		}

		var out bytes.Buffer

		err := compressor.Compress(context.Background(), &out, strings.NewReader("archive"))
		require.NoError(t, err)
		assert.Equal(t, "ARCHIVE", out.String())
	})

	t.Run("args", func(t *testing.T) {
		compressor := &initrd.Command{
			Name: sys.WriteExecutable(t, dir, "args", `cat >/dev/null; echo "$@"`),
			Args: []string{"-19", "-T0"},
		}

		var out bytes.Buffer

		err := compressor.Compress(context.Background(), &out, strings.NewReader("archive"))
		require.NoError(t, err)
		assert.Equal(t, "-19 -T0\n", out.String())
	})

	t.Run("failure", func(t *testing.T) {
		compressor := &initrd.Command{
			Name: sys.WriteExecutable(t, dir, "fail", `cat >/dev/null; echo boom >&2; exit 3`),
		}

		err := compressor.Compress(context.Background(), io.Discard, strings.NewReader("archive"))
		require.ErrorIs(t, err, &sys.ExecError{})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("empty", func(t *testing.T) {
		err := (&initrd.Command{}).Compress(context.Background(), io.Discard, strings.NewReader(""))
		require.ErrorIs(t, err, sys.ErrEmptyCommand)
	})
}
