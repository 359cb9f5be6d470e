// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initrd

import (
	"path"
	"strings"
	"text/template"

	"github.com/aibor/sandboxvm/internal/kmod"
)

// Fixed guest paths and virtio-fs tags.
const (
	SysrootTag   = "sysroot"
	WorkspaceTag = "workspace"

	SysrootMountPoint   = "/sysroot"
	WorkspaceMountPoint = "/run/workspace"

	Locale = "C.UTF-8"
)

// The guest must power off on every exit path. The EXIT trap is set first and
// calls busybox directly, so it works before the applets are installed. With
// "set -e" any failing step exits the shell and so triggers the EXIT trap. Signals are turned into
// an exit as well.
var initScriptTemplate = template.Must(template.New("init").Parse(`#!/busybox sh
trap '/busybox poweroff -f' EXIT
trap 'exit 129' HUP
trap 'exit 130' INT
trap 'exit 131' QUIT
trap 'exit 143' TERM
set -e

/busybox mkdir -p /bin /sbin /usr/bin /usr/sbin
/busybox --install -s
export PATH=/usr/sbin:/usr/bin:/sbin:/bin

mkdir -p /proc /sys /dev
mount -t devtmpfs devtmpfs /dev
mount -t proc proc /proc
mount -t sysfs sysfs /sys
{{ range .Modules }}
insmod {{ . }}
{{- end }}

mkdir -p {{ .Sysroot }}
mount -t virtiofs {{ .SysrootTag }} {{ .Sysroot }}
mount --move /dev {{ .Sysroot }}/dev
mount --move /proc {{ .Sysroot }}/proc
mount --move /sys {{ .Sysroot }}/sys
mount -t tmpfs tmpfs {{ .Sysroot }}/run
mkdir -p {{ .Sysroot }}{{ .Workspace }}
mount -t virtiofs {{ .WorkspaceTag }} {{ .Sysroot }}{{ .Workspace }}

LANG={{ .Locale }} chroot {{ .Sysroot }} /bin/sh -c 'cd {{ .Workspace }} && eval "$*"' sh "$@"
`))

// InitScript renders the init script for the given modules. The modules are
// inserted in the given order, which must be the order returned by
// [kmod.Resolve].
//
// The script expects the command to run as its arguments, which the kernel
// passes from its command line after "--".
func InitScript(modules []kmod.Module) string {
	data := struct {
		Modules      []string
		Sysroot      string
		SysrootTag   string
		Workspace    string
		WorkspaceTag string
		Locale       string
	}{
		Sysroot:      SysrootMountPoint,
		SysrootTag:   SysrootTag,
		Workspace:    WorkspaceMountPoint,
		WorkspaceTag: WorkspaceTag,
		Locale:       Locale,
	}

	for _, module := range modules {
		data.Modules = append(data.Modules, "/"+path.Join(ModulesDir, module.FileName()))
	}

	var script strings.Builder

	// Data and template are static, so execution can not fail.
	_ = initScriptTemplate.Execute(&script, data)

	return script.String()
}
