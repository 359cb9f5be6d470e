// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/aibor/sandboxvm/internal/qemu"
	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/aibor/sandboxvm/internal/variant"
)

// DefaultReadyTimeout is the default time to wait for daemon sockets.
const DefaultReadyTimeout = 10 * time.Second

// Socket file names in the per launch runtime directory.
const (
	SysrootSocketName   = "sysroot.sock"
	WorkspaceSocketName = "workspace.sock"
)

const runtimeDirPrefix = "sandboxvm-"

// Launcher launches guests.
type Launcher struct {
	// Virtiofsd is the virtiofsd binary.
	Virtiofsd string

	// Qemu is the QEMU binary. Defaults to [qemu.DefaultExecutable].
	Qemu string

	// Kernel and Initrd to boot.
	Kernel string
	Initrd string

	// RuntimeDir is where the per launch directory holding the daemon
	// sockets is created. Defaults to [os.TempDir].
	RuntimeDir string

	// HostCommand is prepended to daemon commands.
	HostCommand sys.HostCommand

	// ReadyTimeout limits the wait for each daemon socket. Defaults to
	// [DefaultReadyTimeout].
	ReadyTimeout time.Duration

	// IO of the QEMU process. The guest's serial console is attached to it.
	// Daemon output goes to Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// LaunchSpec describes a single guest launch.
type LaunchSpec struct {
	// Config is the composed variant configuration.
	Config variant.Config

	// MemoryMB is the guest memory in MB.
	MemoryMB int

	// Sysroot is the host directory shared read-only as guest root.
	Sysroot string

	// Workdir is the host directory shared read-write as workspace.
	Workdir string
}

// Session records the processes of a launch.
type Session struct {
	// RuntimeDir is the per launch directory. It is removed once the launch
	// returns.
	RuntimeDir string

	Sysroot   *Daemon
	Workspace *Daemon
}

// Launch starts the sysroot and workspace daemons, waits until both are
// ready and runs QEMU until the guest powers off.
//
// The daemons are stopped in reverse start order before Launch returns, in
// any case. Errors from stopping them are joined with the launch error.
// A non-zero QEMU exit is returned as [LaunchError] with the exit code.
//
// The returned [Session] is non-nil even on error, once the runtime directory
// was created.
func (l *Launcher) Launch(ctx context.Context, spec LaunchSpec) (_ *Session, err error) {
	if spec.MemoryMB <= 0 {
		return nil, &LaunchError{Op: "validate", ExitCode: -1, Err: ErrInvalidMemory}
	}

	extraArgs, err := qemu.ParseArgs(spec.Config.QemuArgs)
	if err != nil {
		return nil, &LaunchError{Op: "validate", ExitCode: -1, Err: err}
	}

	runtimeDir := l.runtimeDir()

	session := &Session{
		RuntimeDir: runtimeDir,
		Sysroot: &Daemon{
			Name:     "sysroot",
			Socket:   filepath.Join(runtimeDir, SysrootSocketName),
			Source:   spec.Sysroot,
			ReadOnly: true,
		},
		Workspace: &Daemon{
			Name:   "workspace",
			Socket: filepath.Join(runtimeDir, WorkspaceSocketName),
			Source: spec.Workdir,
		},
	}

	cmdSpec := qemu.CommandSpec{
		Executable:      l.Qemu,
		Kernel:          l.Kernel,
		Initrd:          l.Initrd,
		Memory:          uint64(spec.MemoryMB),
		SysrootSocket:   session.Sysroot.Socket,
		WorkspaceSocket: session.Workspace.Socket,
		InitCommand:     qemu.InitCommand(spec.Config.Modprobe),
		ExtraArgs:       extraArgs,
	}

	// Build the command line before anything is started, so argument
	// collisions fail early.
	argv, err := cmdSpec.Argv()
	if err != nil {
		return nil, &LaunchError{Op: "validate", ExitCode: -1, Err: err}
	}

	if err := os.Mkdir(runtimeDir, 0o700); err != nil {
		return nil, &LaunchError{
			Op:       "prepare",
			ExitCode: -1,
			Err:      fmt.Errorf("create runtime dir: %w", err),
		}
	}

	defer func() {
		err = errors.Join(err, os.RemoveAll(runtimeDir))
	}()

	// Deferred stops run in reverse order, so the workspace daemon stops
	// first.
	for _, daemon := range []*Daemon{session.Sysroot, session.Workspace} {
		startErr := daemon.Start(l.HostCommand, l.Virtiofsd, l.Stderr)
		if startErr != nil {
			return session, &LaunchError{Op: "start daemon", ExitCode: -1, Err: startErr}
		}

		defer func() {
			err = errors.Join(err, daemon.Stop())
		}()
	}

	for _, daemon := range []*Daemon{session.Sysroot, session.Workspace} {
		readyErr := daemon.WaitReady(ctx, l.readyTimeout())
		if readyErr != nil {
			return session, &LaunchError{Op: "wait daemon", ExitCode: -1, Err: readyErr}
		}
	}

	return session, l.runQemu(ctx, argv)
}

// runtimeDir returns a new unique path for the per launch directory.
func (l *Launcher) runtimeDir() string {
	base := l.RuntimeDir
	if base == "" {
		base = os.TempDir()
	}

	return filepath.Join(base, runtimeDirPrefix+uuid.NewString())
}

func (l *Launcher) readyTimeout() time.Duration {
	if l.ReadyTimeout > 0 {
		return l.ReadyTimeout
	}

	return DefaultReadyTimeout
}

func (l *Launcher) runQemu(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Env = append(os.Environ(), qemu.Environment...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	// Let QEMU shut down the guest cleanly on cancellation.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(unix.SIGTERM)
	}

	slog.Debug("Running QEMU", slog.Any("args", argv))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return &LaunchError{Op: "qemu", ExitCode: exitErr.ExitCode(), Err: err}
	}

	return &LaunchError{Op: "qemu", ExitCode: -1, Err: err}
}
