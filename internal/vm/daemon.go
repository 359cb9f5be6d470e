// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sys/unix"

	"github.com/aibor/sandboxvm/internal/sys"
)

const readyPollInterval = 20 * time.Millisecond

// DefaultStopTimeout is the default time a daemon gets to exit after SIGTERM
// before it is killed.
const DefaultStopTimeout = 5 * time.Second

// Daemon is a virtiofsd process exposing a host directory on a vhost-user
// socket.
type Daemon struct {
	// Name identifies the daemon in logs and errors.
	Name string

	// Socket is the path of the vhost-user socket the daemon listens on.
	Socket string

	// Source is the shared host directory.
	Source string

	// ReadOnly makes the daemon refuse write access to Source.
	ReadOnly bool

	// StopTimeout limits the wait for the daemon to exit after SIGTERM.
	// Defaults to [DefaultStopTimeout].
	StopTimeout time.Duration

	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// Args returns the virtiofsd arguments.
func (d *Daemon) Args() []string {
	args := []string{
		"--socket-path=" + d.Socket,
		"-o", "source=" + d.Source,
		"--sandbox=none",
	}

	if d.ReadOnly {
		args = append(args, "--readonly")
	}

	return args
}

// Start starts the daemon. The process is not bound to any context. It must
// be terminated with [Daemon.Stop].
func (d *Daemon) Start(host sys.HostCommand, binary string, output io.Writer) error {
	cmd := host.Cmd(binary, d.Args()...)
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s daemon: %w", d.Name, err)
	}

	d.cmd = cmd
	d.done = make(chan struct{})

	go func() {
		d.waitErr = cmd.Wait()
		close(d.done)
	}()

	slog.Debug("Daemon started",
		slog.String("daemon", d.Name),
		slog.Int("pid", cmd.Process.Pid),
		slog.Any("args", cmd.Args),
	)

	return nil
}

// Running reports whether the daemon process is alive.
func (d *Daemon) Running() bool {
	if d.done == nil {
		return false
	}

	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// WaitReady blocks until the daemon's socket exists. It fails early if the
// daemon exits and with [ErrDaemonNotReady] once timeout is exceeded.
func (d *Daemon) WaitReady(ctx context.Context, timeout time.Duration) error {
	if d.done == nil {
		return ErrDaemonNotStarted
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check := func() error {
		if !d.Running() {
			return backoff.Permanent(d.exitedError())
		}

		info, err := os.Stat(d.Socket)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if info.Mode().Type() != fs.ModeSocket {
			return backoff.Permanent(fmt.Errorf("%s: %w", d.Socket, ErrNotSocket))
		}

		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(readyPollInterval), ctx)

	err := backoff.Retry(check, policy)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrDaemonNotReady, timeout)
		}

		return fmt.Errorf("%s daemon: %w", d.Name, err)
	}

	slog.Debug("Daemon ready", slog.String("daemon", d.Name))

	return nil
}

// Stop terminates the daemon and waits for it to exit. A daemon still running
// after [Daemon.StopTimeout] is killed. Daemons that exited on their own
// already are reaped as well.
func (d *Daemon) Stop() error {
	if d.done == nil {
		return nil
	}

	err := d.cmd.Process.Signal(unix.SIGTERM)
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		_ = d.cmd.Process.Kill()
		<-d.done

		return fmt.Errorf("stop %s daemon: %w", d.Name, err)
	}

	timeout := d.StopTimeout
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d.done:
	case <-timer.C:
		slog.Warn("Daemon did not stop in time, killing it",
			slog.String("daemon", d.Name),
			slog.Duration("timeout", timeout),
		)

		_ = d.cmd.Process.Kill()
		<-d.done
	}

	slog.Debug("Daemon stopped",
		slog.String("daemon", d.Name),
		slog.Any("result", d.waitErr),
	)

	return nil
}

func (d *Daemon) exitedError() error {
	if d.waitErr == nil {
		return ErrDaemonExited
	}

	return fmt.Errorf("%w: %w", ErrDaemonExited, d.waitErr)
}
