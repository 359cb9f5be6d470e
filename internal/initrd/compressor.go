// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/aibor/sandboxvm/internal/sys"
)

// Names of the built-in compressors.
const (
	CompressorGzip = "gzip"
	CompressorZstd = "zstd"
	CompressorXZ   = "xz"
)

// Compressor compresses the archive stream.
type Compressor interface {
	Compress(ctx context.Context, dst io.Writer, src io.Reader) error
}

// CompressorNames returns the names accepted by [NewCompressor].
func CompressorNames() []string {
	return []string{CompressorGzip, CompressorXZ, CompressorZstd}
}

// NewCompressor returns the built-in compressor with the given name.
func NewCompressor(name string) (Compressor, error) {
	switch name {
	case CompressorGzip:
		return &Gzip{Level: gzip.BestCompression}, nil
	case CompressorZstd:
		return &Zstd{}, nil
	case CompressorXZ:
		return &XZ{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (known: %v)",
			ErrUnknownCompressor, name, CompressorNames())
	}
}

// Gzip compresses with gzip.
type Gzip struct {
	// Level is the compression level. Zero means default compression.
	Level int
}

// Compress implements [Compressor].
func (c *Gzip) Compress(_ context.Context, dst io.Writer, src io.Reader) error {
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	writer, err := gzip.NewWriterLevel(dst, level)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}

	return copyAndClose(writer, src)
}

// Zstd compresses with zstd.
type Zstd struct{}

// Compress implements [Compressor].
func (*Zstd) Compress(_ context.Context, dst io.Writer, src io.Reader) error {
	encoder, err := zstd.NewWriter(dst, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}

	return copyAndClose(encoder, src)
}

// XZ compresses with xz. The kernel only supports CRC32 checksums for xz
// compressed initrds.
type XZ struct{}

// Compress implements [Compressor].
func (*XZ) Compress(_ context.Context, dst io.Writer, src io.Reader) error {
	config := xz.WriterConfig{CheckSum: xz.CRC32}

	writer, err := config.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("xz: %w", err)
	}

	return copyAndClose(writer, src)
}

func copyAndClose(writer io.WriteCloser, src io.Reader) error {
	_, err := io.Copy(writer, src)
	if err != nil {
		_ = writer.Close()
		return err //nolint:wrapcheck
	}

	return writer.Close() //nolint:wrapcheck
}

// Command compresses by running an external program that reads from stdin
// and writes to stdout, like "zstd -19" or "lz4 -l".
type Command struct {
	HostCommand sys.HostCommand
	Name        string
	Args        []string
}

// Compress implements [Compressor].
func (c *Command) Compress(ctx context.Context, dst io.Writer, src io.Reader) error {
	if c.Name == "" {
		return sys.ErrEmptyCommand
	}

	var stderr bytes.Buffer

	cmd := c.HostCommand.CommandContext(ctx, c.Name, slices.Clone(c.Args)...)
	cmd.Stdin = src
	cmd.Stdout = dst
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &sys.ExecError{
			Name:   c.Name,
			Err:    err,
			Stderr: stderr.String(),
		}
	}

	return nil
}
