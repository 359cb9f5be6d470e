// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteExecutable writes a shell script with the given body into the given
// directory and returns its absolute path. It is intended for faking external
// commands in tests.
func WriteExecutable(tb testing.TB, dir, name, body string) string {
	tb.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755) //nolint:gosec
	if err != nil {
		tb.Fatalf("failed to write executable %s: %v", path, err)
	}

	return path
}
