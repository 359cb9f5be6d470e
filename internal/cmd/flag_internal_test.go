// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/sandboxvm/internal/sys"
)

func TestFlags_ParseArgs(t *testing.T) {
	defaults := func(modify func(f *flags)) *flags {
		f := &flags{
			Memory:       2048,
			Workspace:    "workspace",
			QemuBin:      "qemu-system-x86_64",
			Modules:      []string{"virtiofs"},
			Compressor:   "gzip",
			ReadyTimeout: 10 * time.Second,
			Variants:     []string{"base"},
		}

		if modify != nil {
			modify(f)
		}

		return f
	}

	tests := []struct {
		name          string
		preset        []string
		args          []string
		expectedFlags *flags
		expecterErr   error
	}{
		{
			name: "help",
			args: []string{
				"-help",
			},
			expecterErr: ErrHelp,
		},
		{
			name:          "defaults",
			expectedFlags: defaults(nil),
		},
		{
			name: "version",
			args: []string{
				"-version",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Version = true
				f.Variants = nil
			}),
		},
		{
			name: "variants",
			args: []string{
				"gpu",
				"gl",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Variants = []string{"gpu", "gl"}
			}),
		},
		{
			name: "all flags",
			args: []string{
				"-memory=4096",
				"-workspace", "/work/space",
				"-sysroot=/sysroot/here",
				"-qemuBin=qemu-kvm",
				"-virtiofsd=/usr/libexec/virtiofsd",
				"-hostCommand=flatpak-spawn --host --watch-bus",
				"-module=fuse",
				"-module", "virtio-gpu",
				"-kernelRelease=6.12.1",
				"-compressor=zstd",
				"-readyTimeout=3s",
				"-debug",
				"gl",
			},
			expectedFlags: &flags{
				Memory:        4096,
				Workspace:     "/work/space",
				Sysroot:       "/sysroot/here",
				QemuBin:       "qemu-kvm",
				Virtiofsd:     "/usr/libexec/virtiofsd",
				HostCommand:   sys.HostCommand{"flatpak-spawn", "--host", "--watch-bus"},
				Modules:       []string{"fuse", "virtio-gpu"},
				KernelRelease: "6.12.1",
				Compressor:    "zstd",
				ReadyTimeout:  3 * time.Second,
				Variants:      []string{"gl"},
				Debug:         true,
			},
		},
		{
			name: "empty module resets list",
			args: []string{
				"-module=fuse",
				"-module=",
				"-module=drm",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Modules = []string{"drm"}
			}),
		},
		{
			name: "empty module clears default",
			args: []string{
				"-module=",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Modules = []string{}
			}),
		},
		{
			name: "blank module",
			args: []string{
				"-module= ",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "memory below range",
			args: []string{
				"-memory=64",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "memory above range",
			args: []string{
				"-memory=131072",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "compress command",
			args: []string{
				"-compressCommand=lz4 -l -9",
			},
			expectedFlags: defaults(func(f *flags) {
				f.CompressCmd = []string{"lz4", "-l", "-9"}
			}),
		},
		{
			name: "empty compress command",
			args: []string{
				"-compressCommand=",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "unknown compressor",
			args: []string{
				"-compressor=bzip2",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "invalid host command",
			args: []string{
				"-hostCommand=\"unterminated",
			},
			expecterErr: &ParseArgsError{},
		},
		{
			name: "flag parsing stops at first variant",
			args: []string{
				"gpu",
				"-debug",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Variants = []string{"gpu", "-debug"}
			}),
		},
		{
			name: "command line overrides preset",
			preset: []string{
				"-memory=1024",
				"-debug",
				"-compressor=xz",
			},
			args: []string{
				"-memory=4096",
				"gl",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Memory = 4096
				f.Debug = true
				f.Compressor = "xz"
				f.Variants = []string{"gl"}
			}),
		},
		{
			name: "preset flags before command line flags",
			preset: []string{
				"-workspace=/preset",
			},
			args: []string{
				"-memory=4096",
			},
			expectedFlags: defaults(func(f *flags) {
				f.Memory = 4096
				f.Workspace = "/preset"
			}),
		},
		{
			name: "variant in preset",
			preset: []string{
				"gl",
			},
			args: []string{
				"-memory=4096",
			},
			expecterErr: ErrPresetPositional,
		},
		{
			name: "invalid preset flag",
			preset: []string{
				"-memory=1",
			},
			expecterErr: &ParseArgsError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := parseArgs(tt.preset, tt.args, io.Discard)
			require.ErrorIs(t, err, tt.expecterErr)

			if tt.expecterErr != nil {
				return
			}

			flags.flagSet = nil

			assert.Equal(t, tt.expectedFlags, flags)
		})
	}
}

func TestFlags_Usage(t *testing.T) {
	var output strings.Builder

	_, err := parseArgs(nil, []string{"-help"}, &output)
	require.ErrorIs(t, err, ErrHelp)

	assert.Contains(t, output.String(), "sandboxvm [flags...] [variant...]")
	assert.Contains(t, output.String(), "-hostCommand")
	assert.Contains(t, output.String(), "gzip, xz, zstd")
}
