// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kmod

import (
	"context"
	"strings"
	"time"

	"github.com/aibor/sandboxvm/internal/sys"
)

// DefaultModinfoTimeout is the default time limit for a single modinfo call.
const DefaultModinfoTimeout = 5 * time.Second

// Modinfo looks up module metadata using the "modinfo" tool.
type Modinfo struct {
	// Release is the kernel release to query. The modules of the running
	// kernel are queried if empty.
	Release string

	// HostCommand is prepended to every modinfo call.
	HostCommand sys.HostCommand

	// Binary is the modinfo executable. Defaults to "modinfo".
	Binary string

	// Timeout limits each modinfo call. Defaults to
	// [DefaultModinfoTimeout].
	Timeout time.Duration
}

// Depends implements [Metadata].
func (m *Modinfo) Depends(ctx context.Context, name string) ([]string, error) {
	out, err := m.field(ctx, name, "depends")
	if err != nil {
		return nil, err
	}

	var deps []string

	for _, dep := range strings.FieldsFunc(out, isListSeparator) {
		deps = append(deps, NormalizeName(dep))
	}

	return deps, nil
}

// Path implements [Metadata].
func (m *Modinfo) Path(ctx context.Context, name string) (string, error) {
	out, err := m.field(ctx, name, "filename")
	if err != nil {
		return "", err
	}

	path := strings.TrimSpace(out)
	if path == "" {
		return "", ErrModuleNotFound
	}

	return path, nil
}

func (m *Modinfo) field(ctx context.Context, name, field string) (string, error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultModinfoTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary := m.Binary
	if binary == "" {
		binary = "modinfo"
	}

	args := []string{"-F", field}
	if m.Release != "" {
		args = append(args, "-k", m.Release)
	}

	args = append(args, name)

	out, err := m.HostCommand.Output(ctx, binary, args...)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return string(out), nil
}

func isListSeparator(r rune) bool {
	return r == ',' || r == '\n' || r == ' '
}
