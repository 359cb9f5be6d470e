// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/samber/lo"

	"github.com/aibor/sandboxvm/internal/initrd"
	"github.com/aibor/sandboxvm/internal/kmod"
	"github.com/aibor/sandboxvm/internal/qemu"
	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/aibor/sandboxvm/internal/variant"
	"github.com/aibor/sandboxvm/internal/vm"
	"github.com/aibor/sandboxvm/internal/workspace"
)

const (
	name = "sandboxvm"

	memDefault = 2048
	memMin     = 128
	memMax     = 65536

	defaultModule = "virtiofs"

	usageMessage = `Usage of 'sandboxvm':
    sandboxvm [flags...] [variant...]

Boots the host's deployment read-only in a QEMU VM and drops into a shell in
the current directory, which is shared read-write at /run/workspace.

Variants add QEMU arguments and kernel modules. Multiple variants are
combined. Without any, variant "base" is used.

Running from a flatpak or toolbox container:
	sandboxvm -hostCommand="flatpak-spawn --host --watch-bus" gl

All sandboxvm flags can also be provided via environment variable
SANDBOXVM_ARGS:
	SANDBOXVM_ARGS="-memory=4096 -debug" sandboxvm gpu

All sandboxvm flags can also be provided via file ./.sandboxvm-args, with one
argument per line.

Both only accept flags. Variants must be given on the command line. Flags
given on the command line take precedence.
`
)

type flags struct {
	flagSet *flag.FlagSet

	Memory        uint64
	Workspace     string
	Sysroot       string
	QemuBin       string
	Virtiofsd     string
	HostCommand   sys.HostCommand
	Modules       []string
	KernelRelease string
	Compressor    string
	CompressCmd   []string
	ReadyTimeout  time.Duration
	Variants      []string

	Debug   bool
	Version bool
}

func newFlagSet(output io.Writer) *flags {
	flags := &flags{
		Memory:       memDefault,
		Workspace:    workspace.DefaultDir,
		QemuBin:      qemu.DefaultExecutable,
		Modules:      []string{defaultModule},
		Compressor:   initrd.CompressorGzip,
		ReadyTimeout: vm.DefaultReadyTimeout,
	}

	flags.initFlagset(output)

	return flags
}

// parseArgs parses the preset arguments from environment and local config
// file first and the command line arguments after. Preset arguments must be
// flags only, so a variant name there does not stop flag parsing of the command
// line.
func parseArgs(preset, args []string, output io.Writer) (*flags, error) {
	flags := newFlagSet(output)

	err := flags.ParseArgs(preset, args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func (f *flags) ParseArgs(preset, args []string) error {
	err := f.flagSet.Parse(preset)
	if err != nil {
		return &ParseArgsError{msg: "preset flag parse", err: err}
	}

	if f.flagSet.NArg() > 0 {
		return f.fail("preset arguments",
			fmt.Errorf("%w: %q", ErrPresetPositional, f.flagSet.Args()))
	}

	err = f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	if f.Version {
		return nil
	}

	for _, module := range f.Modules {
		if kmod.NormalizeName(module) == "" {
			return f.fail("invalid module name", fmt.Errorf("%q", module))
		}
	}

	// All positional arguments are variant names.
	f.Variants = f.flagSet.Args()
	if len(f.Variants) == 0 {
		f.Variants = []string{variant.DefaultName}
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		&limitedUintValue{
			Value: &f.Memory,
			min:   memMin,
			max:   memMax,
		},
		"memory",
		"memory (in MB) for the QEMU VM",
	)

	flagSet.StringVar(
		&f.Workspace,
		"workspace",
		f.Workspace,
		"directory with kernel, initrd, busybox and virtiofsd",
	)

	flagSet.StringVar(
		&f.Sysroot,
		"sysroot",
		f.Sysroot,
		"host directory to boot as guest root (default is the booted "+
			"ostree deployment)",
	)

	flagSet.StringVar(
		&f.QemuBin,
		"qemuBin",
		f.QemuBin,
		"QEMU binary to use",
	)

	flagSet.StringVar(
		&f.Virtiofsd,
		"virtiofsd",
		f.Virtiofsd,
		"virtiofsd binary to use (default is the one in the workspace)",
	)

	flagSet.Var(
		&f.HostCommand,
		"hostCommand",
		"command prefix for running host tools, split like a shell does",
	)

	flagSet.Var(
		&stringList{Values: &f.Modules},
		"module",
		"kernel module to load in the initrd, with its dependencies. "+
			"Flag may be used more than once. Empty value clears the list. "+
			"(default "+defaultModule+")",
	)

	flagSet.StringVar(
		&f.KernelRelease,
		"kernelRelease",
		f.KernelRelease,
		"kernel release to look up modules for (default is the running kernel)",
	)

	flagSet.Func(
		"compressor",
		"initrd compression: "+strings.Join(initrd.CompressorNames(), ", ")+
			" (default "+f.Compressor+")",
		func(s string) error {
			if !lo.Contains(initrd.CompressorNames(), s) {
				return fmt.Errorf("%w: %s", ErrUnknownCompressor, s)
			}

			f.Compressor = s

			return nil
		},
	)

	flagSet.Func(
		"compressCommand",
		"external initrd compression command reading stdin and writing "+
			"stdout, like \"lz4 -l\". Overrides -compressor",
		func(s string) error {
			fields, err := shlex.Split(s)
			if err != nil {
				return fmt.Errorf("split: %w", err)
			}

			if len(fields) == 0 {
				return ErrEmptyCommand
			}

			f.CompressCmd = fields

			return nil
		},
	)

	flagSet.DurationVar(
		&f.ReadyTimeout,
		"readyTimeout",
		f.ReadyTimeout,
		"time to wait for each virtiofsd socket",
	)

	flagSet.BoolVar(
		&f.Debug,
		"debug",
		f.Debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.Version,
		"version",
		f.Version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
