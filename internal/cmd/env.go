// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/shlex"
)

const (
	envArgsVar      = "SANDBOXVM_ARGS"
	localConfigFile = ".sandboxvm-args"
)

// EnvArgs returns sandboxvm arguments from the environment. The value is split
// using shell quoting rules.
func EnvArgs() ([]string, error) {
	args, err := shlex.Split(os.Getenv(envArgsVar))
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", envArgsVar, err)
	}

	if args == nil {
		args = []string{}
	}

	return args, nil
}

// LocalConfigArgs returns sandboxvm arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for line := range strings.SplitSeq(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// PresetArgs returns the arguments from the environment and the local config
// file, in this order. They are parsed before the command line arguments, so
// the command line takes precedence.
func PresetArgs(fsys fs.FS, file string) ([]string, error) {
	envArgs, err := EnvArgs()
	if err != nil {
		return nil, err
	}

	localArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("local config %s: %w", file, err)
	}

	preset := make([]string, 0, len(envArgs)+len(localArgs))
	preset = append(preset, envArgs...)
	preset = append(preset, localArgs...)

	return preset, nil
}
