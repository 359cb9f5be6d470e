// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolutePath(t *testing.T) {
	_, err := sys.AbsolutePath("")
	require.ErrorIs(t, err, sys.ErrEmptyPath)

	abs, err := sys.AbsolutePath("some/file")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	missing := filepath.Join(dir, "missing")

	require.NoError(t, sys.ValidateFile(file))
	require.ErrorIs(t, sys.ValidateFile(dir), sys.ErrNotRegularFile)
	require.ErrorIs(t, sys.ValidateFile(missing), fs.ErrNotExist)

	require.NoError(t, sys.ValidateDir(dir))
	require.ErrorIs(t, sys.ValidateDir(file), sys.ErrNotDirectory)
	require.ErrorIs(t, sys.ValidateDir(missing), fs.ErrNotExist)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), link))

	exists, err := sys.Exists(link)
	require.NoError(t, err)
	assert.True(t, exists, "broken link")

	exists, err = sys.Exists(filepath.Join(dir, "nowhere"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKernelRelease(t *testing.T) {
	release, err := sys.KernelRelease()
	require.NoError(t, err)
	assert.NotEmpty(t, release)
}
