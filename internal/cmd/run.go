// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/aibor/sandboxvm/internal/initrd"
	"github.com/aibor/sandboxvm/internal/kmod"
	"github.com/aibor/sandboxvm/internal/ostree"
	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/aibor/sandboxvm/internal/variant"
	"github.com/aibor/sandboxvm/internal/vm"
	"github.com/aibor/sandboxvm/internal/workspace"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlags(args []string, cfg IO) (*flags, error) {
	preset, err := PresetArgs(os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(preset, args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

// newModuleMetadata returns the module metadata source. If the workspace ships
// its own module index, it is used. Otherwise, the host's modinfo is asked.
func newModuleMetadata(flags *flags, layout workspace.Layout) (kmod.Metadata, error) {
	modulesDir := layout.Modules()

	exists, err := sys.Exists(filepath.Join(modulesDir, kmod.ModulesDepFile))
	if err != nil {
		return nil, fmt.Errorf("module index: %w", err)
	}

	if exists {
		slog.Debug("Using workspace module index",
			slog.String("dir", modulesDir))

		meta, err := kmod.LoadModulesDep(os.DirFS(modulesDir), modulesDir)
		if err != nil {
			return nil, fmt.Errorf("module index: %w", err)
		}

		return meta, nil
	}

	release := flags.KernelRelease
	if release == "" {
		release, err = sys.KernelRelease()
		if err != nil {
			return nil, fmt.Errorf("kernel release: %w", err)
		}
	}

	slog.Debug("Using modinfo", slog.String("release", release))

	return &kmod.Modinfo{
		Release:     release,
		HostCommand: flags.HostCommand,
	}, nil
}

func buildInitrd(
	ctx context.Context,
	flags *flags,
	layout workspace.Layout,
) error {
	meta, err := newModuleMetadata(flags, layout)
	if err != nil {
		return err
	}

	modules, err := kmod.Resolve(ctx, meta, flags.Modules...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Resolved modules",
		slog.Any("seeds", flags.Modules),
		slog.Int("count", len(modules)))

	compressor, err := newCompressor(flags)
	if err != nil {
		return fmt.Errorf("initrd: %w", err)
	}

	spec := initrd.Spec{
		Modules: modules,
		Busybox: layout.Busybox(),
		Output:  layout.Initrd(),
	}

	err = initrd.NewBuilder(compressor).Build(ctx, spec)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

func newCompressor(flags *flags) (initrd.Compressor, error) {
	if len(flags.CompressCmd) > 0 {
		return &initrd.Command{
			Name: flags.CompressCmd[0],
			Args: flags.CompressCmd[1:],
		}, nil
	}

	return initrd.NewCompressor(flags.Compressor) //nolint:wrapcheck
}

func resolveSysroot(ctx context.Context, flags *flags) (string, error) {
	if flags.Sysroot != "" {
		sysroot, err := sys.AbsolutePath(flags.Sysroot)
		if err != nil {
			return "", fmt.Errorf("sysroot: %w", err)
		}

		return sysroot, nil
	}

	resolver := ostree.Resolver{HostCommand: flags.HostCommand}

	sysroot, err := resolver.DeploymentRoot(ctx)
	if err != nil {
		return "", fmt.Errorf("sysroot: %w", err)
	}

	return sysroot, nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	config, err := variant.DefaultRegistry().Compose(flags.Variants...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Composed config",
		slog.String("name", config.Name),
		slog.Any("qemu_args", config.QemuArgs),
		slog.Any("modprobe", config.Modprobe))

	layout, err := workspace.New(flags.Workspace)
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = layout.Validate()
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = buildInitrd(ctx, flags, layout)
	if err != nil {
		return err
	}

	sysroot, err := resolveSysroot(ctx, flags)
	if err != nil {
		return err
	}

	workdir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("workdir: %w", err)
	}

	virtiofsd := flags.Virtiofsd
	if virtiofsd == "" {
		virtiofsd = layout.Virtiofsd()
	}

	if !sys.KVMAvailable() {
		slog.Warn("KVM not available, the guest will fail to start with accel=kvm")
	}

	launcher := &vm.Launcher{
		Virtiofsd:    virtiofsd,
		Qemu:         flags.QemuBin,
		Kernel:       layout.Kernel(),
		Initrd:       layout.Initrd(),
		HostCommand:  flags.HostCommand,
		ReadyTimeout: flags.ReadyTimeout,
		Stdin:        cfg.Stdin,
		Stdout:       cfg.Stdout,
		Stderr:       cfg.Stderr,
	}

	spec := vm.LaunchSpec{
		Config:   config,
		MemoryMB: int(flags.Memory), //nolint:gosec
		Sysroot:  sysroot,
		Workdir:  workdir,
	}

	_, err = launcher.Launch(ctx, spec)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	exitCode := -1

	var launchErr *vm.LaunchError
	if errors.As(err, &launchErr) && launchErr.ExitCode > 0 {
		exitCode = launchErr.ExitCode
	}

	slog.Error(err.Error())

	return exitCode
}

// Run is the main entry point for the CLI command. The args must not contain
// the program name.
//
// It returns the exit code for the process: 0 on success, the exit code of
// QEMU if it exited non-zero and -1 for any other error.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := newFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.Debug)

	if flags.Version {
		buildInfo, err := getBuildInfo()
		if err != nil {
			slog.Error(err.Error())
			return -1
		}

		fmt.Fprintf(cfg.Stdout, "Version: %s\n", buildInfo.Main.Version)

		return 0
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
