// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vm

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Fakes holds paths of fake binaries for tests.
type Fakes struct {
	Virtiofsd string
	Qemu      string
	Log       string
	Dir       string
}

// NewFakes creates fake virtiofsd and QEMU binaries. Unix socket paths are
// limited in length, so a short temporary directory is used.
func NewFakes(tb testing.TB) *Fakes {
	tb.Helper()

	dir, err := os.MkdirTemp("", "svm")
	if err != nil {
		tb.Fatal(err)
	}

	tb.Cleanup(func() { _ = os.RemoveAll(dir) })

	self, err := os.Executable()
	if err != nil {
		tb.Fatal(err)
	}

	fakes := &Fakes{
		Virtiofsd: filepath.Join(dir, fakeVirtiofsdName),
		Qemu:      filepath.Join(dir, fakeQemuName),
		Log:       filepath.Join(dir, "calls.log"),
		Dir:       dir,
	}

	for _, link := range []string{fakes.Virtiofsd, fakes.Qemu} {
		if err := os.Symlink(self, link); err != nil {
			tb.Fatal(err)
		}
	}

	tb.Setenv(envFakeLog, fakes.Log)

	return fakes
}

// SetDaemonMode sets the behavior of fake daemons: "exit" exits immediately,
// "never" never creates the socket, "stubborn" ignores SIGTERM.
func (*Fakes) SetDaemonMode(tb testing.TB, mode string) {
	tb.Helper()
	tb.Setenv(envFakeDaemonMode, mode)
}

// SetQemuExitCode sets the exit code of the fake QEMU.
func (*Fakes) SetQemuExitCode(tb testing.TB, code int) {
	tb.Helper()
	tb.Setenv(envFakeQemuExit, strconv.Itoa(code))
}

// SetQemuHang makes the fake QEMU run until terminated.
func (*Fakes) SetQemuHang(tb testing.TB) {
	tb.Helper()
	tb.Setenv(envFakeQemuMode, "hang")
}

// Calls returns the lines logged by the fakes.
func (f *Fakes) Calls(tb testing.TB) []string {
	tb.Helper()

	data, err := os.ReadFile(f.Log)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		tb.Fatal(err)
	}

	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
