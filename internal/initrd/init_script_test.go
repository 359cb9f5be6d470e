// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/aibor/sandboxvm/internal/initrd"
	"github.com/aibor/sandboxvm/internal/kmod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineIndex(t *testing.T, lines []string, line string) int {
	t.Helper()

	idx := slices.Index(lines, line)
	require.GreaterOrEqual(t, idx, 0, "line missing: %q", line)

	return idx
}

func TestInitScriptModuleOrder(t *testing.T) {
	modules := []kmod.Module{
		{Name: "m1", Path: "/lib/modules/test/m1.ko"},
		{Name: "m2", Path: "/lib/modules/test/m2.ko.xz", Depends: []string{"m1"}},
	}

	lines := strings.Split(initrd.InitScript(modules), "\n")

	m1 := lineIndex(t, lines, "insmod /modules/m1.ko")
	m2 := lineIndex(t, lines, "insmod /modules/m2.ko")

	assert.Less(t, m1, m2)
}

func TestInitScriptSequence(t *testing.T) {
	modules := []kmod.Module{
		{Name: "virtiofs", Path: "/lib/modules/test/virtiofs.ko"},
	}

	script := initrd.InitScript(modules)
	lines := strings.Split(script, "\n")

	assert.Equal(t, "#!/busybox sh", lines[0])

	expectedOrder := []string{
		"trap '/busybox poweroff -f' EXIT",
		"set -e",
		"/busybox --install -s",
		"mkdir -p /proc /sys /dev",
		"mount -t devtmpfs devtmpfs /dev",
		"mount -t proc proc /proc",
		"mount -t sysfs sysfs /sys",
		"insmod /modules/virtiofs.ko",
		"mount -t virtiofs sysroot /sysroot",
		"mount --move /dev /sysroot/dev",
		"mount -t tmpfs tmpfs /sysroot/run",
		"mount -t virtiofs workspace /sysroot/run/workspace",
		`LANG=C.UTF-8 chroot /sysroot /bin/sh -c 'cd /run/workspace && eval "$*"' sh "$@"`,
	}

	last := -1

	for _, line := range expectedOrder {
		idx := lineIndex(t, lines, line)
		assert.Greater(t, idx, last, "line out of order: %q", line)
		last = idx
	}
}

func TestInitScriptPowersOffOnSignals(t *testing.T) {
	script := initrd.InitScript(nil)

	for _, signal := range []string{"HUP", "INT", "QUIT", "TERM"} {
		assert.Regexp(t, `(?m)^trap 'exit \d+' `+signal+`$`, script)
	}

	assert.NotContains(t, script, "insmod")
}
