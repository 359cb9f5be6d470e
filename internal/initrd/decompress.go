// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/aibor/sandboxvm/internal/kmod"
)

// decompress returns a reader for the decompressed content of r. The
// compression is given as file name suffix as returned by
// [kmod.Module.Compression].
func decompress(r io.Reader, compression string) (io.ReadCloser, error) {
	switch compression {
	case "":
		return io.NopCloser(r), nil
	case kmod.SuffixXZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return io.NopCloser(reader), nil
	case kmod.SuffixZstd:
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return decoder.IOReadCloser(), nil
	case kmod.SuffixGzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}

		return reader, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}
}
