// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"strconv"
	"strings"
)

// DefaultExecutable is the QEMU binary used if none is given.
const DefaultExecutable = "qemu-system-x86_64"

// Tags of the virtio-fs devices. The guest init mounts them by these names.
const (
	SysrootTag   = "sysroot"
	WorkspaceTag = "workspace"
)

// Environment is added to the QEMU process environment.
var Environment = []string{"LANG=C.utf8"}

// CommandSpec defines the parameters for the QEMU command.
type CommandSpec struct {
	// Path to the qemu-system binary. Defaults to [DefaultExecutable].
	Executable string

	// Path to the kernel to boot.
	Kernel string

	// Path to the initrd to boot with.
	Initrd string

	// Memory for the machine in MB.
	Memory uint64

	// Sockets of the vhost-user virtio-fs daemons.
	SysrootSocket   string
	WorkspaceSocket string

	// InitCommand is passed to the guest init as its command to run.
	InitCommand string

	// ExtraArgs are appended verbatim. They must not collide with the
	// arguments set by the spec itself.
	ExtraArgs []Argument
}

// Validate checks that all required fields are set.
func (s *CommandSpec) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"kernel", s.Kernel},
		{"initrd", s.Initrd},
		{"sysroot socket", s.SysrootSocket},
		{"workspace socket", s.WorkspaceSocket},
	}

	for _, field := range required {
		if field.value == "" {
			return &ArgumentError{field.name + " must be set"}
		}
	}

	if s.Memory == 0 {
		return &ArgumentError{"memory must be positive"}
	}

	return nil
}

// Argv returns the complete command line including the executable.
func (s *CommandSpec) Argv() ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(s.arguments())
	if err != nil {
		return nil, err
	}

	executable := s.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	return append([]string{executable}, args...), nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	memory := strconv.FormatUint(s.Memory, 10)

	args := []Argument{
		// Guest reboot requests end QEMU.
		UniqueArg("boot", "reboot-timeout=0"),
		UniqueArg("action", "reboot=shutdown"),
		UniqueArg("nodefaults"),
		UniqueArg("no-user-config"),
		UniqueArg("nographic"),
		UniqueArg("machine", "q35", "accel=kvm"),
		UniqueArg("cpu", "host"),
		UniqueArg("m", memory),
		// vhost-user devices need shared guest memory.
		RepeatableArg("object", "memory-backend-memfd", "id=mem",
			"size="+memory+"M", "share=on"),
		RepeatableArg("numa", "node", "memdev=mem"),
		// Serial console and monitor multiplexed on stdio.
		RepeatableArg("chardev", "stdio", "mux=on", "id=char0"),
		RepeatableArg("serial", "chardev:char0"),
		RepeatableArg("mon", "chardev=char0", "mode=readline"),
	}

	args = appendVirtiofsArgs(args, "char1", s.SysrootSocket, SysrootTag)
	args = appendVirtiofsArgs(args, "char2", s.WorkspaceSocket, WorkspaceTag)

	args = append(args,
		UniqueArg("kernel", s.Kernel),
		UniqueArg("initrd", s.Initrd),
		UniqueArg("append", s.kernelCmdline()),
	)

	return append(args, s.ExtraArgs...)
}

func appendVirtiofsArgs(args []Argument, id, socket, tag string) []Argument {
	return append(args,
		RepeatableArg("chardev", "socket", "id="+id, "path="+socket),
		RepeatableArg("device", "vhost-user-fs-pci", "chardev="+id, "tag="+tag),
	)
}

// kernelCmdline returns the kernel command line. Everything after "--" is
// passed to the init as arguments.
func (s *CommandSpec) kernelCmdline() string {
	return `console=ttyS0 panic=-1 quiet -- "` + s.InitCommand + `"`
}

// InitCommand returns the shell command the guest init runs: each module is
// loaded with modprobe followed by an interactive shell.
func InitCommand(modprobe []string) string {
	var cmd strings.Builder

	for _, module := range modprobe {
		cmd.WriteString("modprobe " + module + "; ")
	}

	cmd.WriteString("sh")

	return cmd.String()
}
