// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kmod

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Index file names in a kernel's module directory.
const (
	ModulesDepFile     = "modules.dep"
	ModulesBuiltinFile = "modules.builtin"
)

// ModulesDirectory returns the module directory of the given kernel release.
func ModulesDirectory(release string) string {
	return filepath.Join("/lib/modules", release)
}

// ModulesDep provides module metadata from the "modules.dep" index generated
// by depmod. It does not need any external tools.
type ModulesDep struct {
	modules map[string]Module
}

// LoadModulesDep reads the module index from fsys, which must be the module
// directory of a kernel release like "/lib/modules/6.12.1". Module paths are
// returned relative to root, which should be the absolute path fsys
// represents.
//
// The "modules.builtin" index is optional. If present, modules listed there
// are reported as builtin.
func LoadModulesDep(fsys fs.FS, root string) (*ModulesDep, error) {
	index := &ModulesDep{modules: make(map[string]Module)}

	err := readLines(fsys, ModulesDepFile, func(line string) error {
		file, deps, found := strings.Cut(line, ":")
		if !found {
			return fmt.Errorf("%w: %q", ErrMalformedIndex, line)
		}

		module := Module{
			Name: NameFromPath(file),
			Path: filepath.Join(root, file),
		}

		for _, dep := range strings.Fields(deps) {
			module.Depends = append(module.Depends, NameFromPath(dep))
		}

		index.modules[module.Name] = module

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readLines(fsys, ModulesBuiltinFile, func(line string) error {
		name := NameFromPath(line)
		if _, exists := index.modules[name]; !exists {
			index.modules[name] = Module{Name: name, Path: BuiltinPath}
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return index, nil
}

// Depends implements [Metadata].
func (d *ModulesDep) Depends(_ context.Context, name string) ([]string, error) {
	module, err := d.lookup(name)
	if err != nil {
		return nil, err
	}

	return module.Depends, nil
}

// Path implements [Metadata].
func (d *ModulesDep) Path(_ context.Context, name string) (string, error) {
	module, err := d.lookup(name)
	if err != nil {
		return "", err
	}

	return module.Path, nil
}

func (d *ModulesDep) lookup(name string) (Module, error) {
	module, exists := d.modules[NormalizeName(name)]
	if !exists {
		return Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	return module, nil
}

func readLines(fsys fs.FS, name string, fn func(line string) error) error {
	file, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read index %s: %w", name, err)
	}

	return nil
}
