// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"io/fs"
	"path"

	"github.com/aibor/sandboxvm/internal/kmod"
)

// Archive paths.
const (
	BusyboxPath = "busybox"
	InitPath    = "init"
	ModulesDir  = "modules"
)

const executableMode fs.FileMode = 0o755

// Entry is a single file of the initrd archive.
type Entry struct {
	// Path is the path in the archive.
	Path string

	// Mode is the file mode. Directories have [fs.ModeDir] set.
	Mode fs.FileMode

	// Source is the host path the content is read from.
	Source string

	// Body is the content for entries without Source.
	Body []byte

	// Compression is the compression suffix of Source. The content is
	// decompressed while archiving.
	Compression string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// Manifest returns the archive entries in the order they are written: the
// busybox binary, the init script, the modules directory and then each module
// in the given order.
func Manifest(busybox, initScript string, modules []kmod.Module) []Entry {
	entries := []Entry{
		{Path: BusyboxPath, Mode: executableMode, Source: busybox},
		{Path: InitPath, Mode: executableMode, Body: []byte(initScript)},
		{Path: ModulesDir, Mode: fs.ModeDir | executableMode},
	}

	for _, module := range modules {
		entries = append(entries, Entry{
			Path:        path.Join(ModulesDir, module.FileName()),
			Mode:        0o644,
			Source:      module.Path,
			Compression: module.Compression(),
		})
	}

	return entries
}
