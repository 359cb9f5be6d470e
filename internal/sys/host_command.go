// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// HostCommand is a command prefix for running commands on the host system.
//
// It is empty if commands run directly. When running inside a sandbox, like
// a flatpak or toolbox container, it can be set to something like
// "flatpak-spawn --host --watch-bus", so commands escape the sandbox.
type HostCommand []string

// ParseHostCommand splits the given string into a [HostCommand] using shell
// quoting rules.
func ParseHostCommand(s string) (HostCommand, error) {
	fields, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("split host command: %w", err)
	}

	return HostCommand(fields), nil
}

// String implements [flag.Value].
func (h *HostCommand) String() string {
	if h == nil {
		return ""
	}

	return strings.Join(*h, " ")
}

// Set implements [flag.Value].
func (h *HostCommand) Set(s string) error {
	cmd, err := ParseHostCommand(s)
	if err != nil {
		return err
	}

	*h = cmd

	return nil
}

// Argv returns the complete argument list for running the named program
// with the given args on the host.
func (h HostCommand) Argv(name string, args ...string) []string {
	argv := make([]string, 0, len(h)+1+len(args))
	argv = append(argv, h...)
	argv = append(argv, name)
	argv = append(argv, args...)

	return argv
}

// Cmd returns an [exec.Cmd] for running the named program with the given
// args on the host. The returned command is not bound to any context, so the
// caller is responsible for terminating it.
func (h HostCommand) Cmd(name string, args ...string) *exec.Cmd {
	argv := h.Argv(name, args...)
	return exec.Command(argv[0], argv[1:]...) //nolint:gosec
}

// CommandContext is like [HostCommand.Cmd] but the command is killed once
// the given context is done.
func (h HostCommand) CommandContext(
	ctx context.Context,
	name string,
	args ...string,
) *exec.Cmd {
	argv := h.Argv(name, args...)
	return exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
}

// Output runs the named program with the given args on the host and returns
// its standard output.
//
// It returns an [ExecError] if the command can not be started or returns
// with a non-zero exit code. The error carries the command's standard error
// output.
func (h HostCommand) Output(
	ctx context.Context,
	name string,
	args ...string,
) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyCommand
	}

	var stdout, stderr bytes.Buffer

	cmd := h.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, &ExecError{
			Name:   name,
			Err:    err,
			Stderr: stderr.String(),
		}
	}

	return stdout.Bytes(), nil
}
