// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package workspace defines the on-disk layout of the files the guest is
// built from and booted with.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aibor/sandboxvm/internal/sys"
)

// DefaultDir is the default workspace directory, relative to the working
// directory.
const DefaultDir = "workspace"

// Paths relative to the workspace directory.
const (
	KernelPath    = "boot/vmlinuz"
	InitrdPath    = "boot/initrd"
	BusyboxPath   = "usr/bin/busybox"
	VirtiofsdPath = "usr/bin/virtiofsd"
	ModulesDir    = "modules"
)

// Layout resolves paths in a workspace directory.
type Layout struct {
	// Dir is the absolute workspace directory.
	Dir string
}

// New returns the [Layout] for the given directory, made absolute.
func New(dir string) (Layout, error) {
	abs, err := sys.AbsolutePath(dir)
	if err != nil {
		return Layout{}, fmt.Errorf("workspace: %w", err)
	}

	return Layout{Dir: abs}, nil
}

// Path joins the given path relative to the workspace directory.
func (l Layout) Path(rel string) string {
	return filepath.Join(l.Dir, rel)
}

// Kernel returns the path of the kernel image.
func (l Layout) Kernel() string {
	return l.Path(KernelPath)
}

// Initrd returns the path of the initrd.
func (l Layout) Initrd() string {
	return l.Path(InitrdPath)
}

// Busybox returns the path of the busybox binary.
func (l Layout) Busybox() string {
	return l.Path(BusyboxPath)
}

// Virtiofsd returns the path of the virtiofsd binary.
func (l Layout) Virtiofsd() string {
	return l.Path(VirtiofsdPath)
}

// Modules returns the directory of extra module files.
func (l Layout) Modules() string {
	return l.Path(ModulesDir)
}

// Validate checks that the files required to build and boot the guest are
// present. The initrd is not required, since it is built if missing.
func (l Layout) Validate() error {
	if err := sys.ValidateDir(l.Dir); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	var errs []error

	for _, path := range []string{l.Kernel(), l.Busybox()} {
		if err := sys.ValidateFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	return nil
}
