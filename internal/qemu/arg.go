// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Option names that may be given more than once.
var repeatableNames = []string{
	"chardev",
	"device",
	"drive",
	"fsdev",
	"global",
	"mon",
	"netdev",
	"numa",
	"object",
	"serial",
}

// Argument is a QEMU option with or without value.
//
// Unique arguments may be present only once in an argument list, repeatable
// ones only once with the same value.
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := "-" + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Name returns the option name without leading dash.
func (a Argument) Name() string {
	return a.name
}

// Value returns the option value.
func (a Argument) Value() string {
	return a.value
}

// Repeatable reports whether the option may be given multiple times.
func (a Argument) Repeatable() bool {
	return a.repeatable
}

// Collides reports whether both arguments must not be used together.
func (a Argument) Collides(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.repeatable {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns an [Argument] that may be used only once. Multiple values
// are joined with ",".
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns an [Argument] that may be used multiple times with
// different values. Multiple values are joined with ",".
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:       name,
		value:      strings.Join(value, ","),
		repeatable: true,
	}
}

// ParseArgs parses plain command line tokens like
// ["-display", "gtk,gl=on", "-nographic"] into [Argument]s. A token that does
// not start with "-" is the value of the preceding option. Well known options
// like "-device" are repeatable, all others are unique.
func ParseArgs(tokens []string) ([]Argument, error) {
	var args []Argument

	for _, token := range tokens {
		name, isName := strings.CutPrefix(token, "-")
		if isName && name != "" {
			args = append(args, Argument{
				name:       name,
				repeatable: slices.Contains(repeatableNames, name),
			})

			continue
		}

		if len(args) == 0 || args[len(args)-1].value != "" {
			return nil, &ArgumentError{
				fmt.Sprintf("%s: %q", ErrMissingArgumentName, token),
			}
		}

		args[len(args)-1].value = token
	}

	return args, nil
}

// BuildArgumentStrings compiles the [Argument]s into a slice of strings which
// can be used with [exec.Command].
//
// It returns an error wrapping [ErrArgumentCollision] if any arguments
// collide.
func BuildArgumentStrings(args []Argument) ([]string, error) {
	argStrings := make([]string, 0, 2*len(args)) //nolint:mnd

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Collides); i != -1 {
			return nil, fmt.Errorf("%w: %s, %s",
				ErrArgumentCollision, args[i], arg)
		}

		argStrings = append(argStrings, "-"+arg.name)

		if arg.value != "" {
			argStrings = append(argStrings, arg.value)
		}
	}

	return argStrings, nil
}
