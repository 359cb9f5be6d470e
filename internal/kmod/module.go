// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kmod

import (
	"path/filepath"
	"strings"
)

// BuiltinPath is the path reported for modules compiled into the kernel.
const BuiltinPath = "(builtin)"

// Compression suffixes of module files.
const (
	SuffixXZ   = ".xz"
	SuffixZstd = ".zst"
	SuffixGzip = ".gz"
)

const objectSuffix = ".ko"

// Module is a single resolved kernel module.
type Module struct {
	// Name of the module, normalized by [NormalizeName].
	Name string

	// Depends are the names of the modules this one directly depends on.
	Depends []string

	// Path is the absolute path of the module file. It is [BuiltinPath] for
	// modules compiled into the kernel.
	Path string
}

// Builtin reports whether the module is compiled into the kernel and so has
// no file.
func (m Module) Builtin() bool {
	return m.Path == BuiltinPath
}

// FileName returns the base name of the module file with any compression
// suffix removed, e.g. "virtiofs.ko" for "/lib/.../virtiofs.ko.xz".
func (m Module) FileName() string {
	name := filepath.Base(m.Path)

	for _, suffix := range []string{SuffixXZ, SuffixZstd, SuffixGzip} {
		if strings.HasSuffix(name, objectSuffix+suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}

	return name
}

// Compression returns the compression suffix of the module file or the empty
// string if it is not compressed.
func (m Module) Compression() string {
	return strings.TrimPrefix(filepath.Base(m.Path), m.FileName())
}

// NormalizeName returns the canonical form of a module name. The kernel
// treats dashes and underscores in module names the same.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

// NameFromPath returns the normalized module name for a module file path.
func NameFromPath(path string) string {
	name := Module{Path: path}.FileName()
	return NormalizeName(strings.TrimSuffix(name, objectSuffix))
}
