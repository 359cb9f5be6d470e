// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package variant

import (
	"errors"
	"strings"
)

var (
	// ErrNoVariants is returned if composition is requested without any
	// variant names.
	ErrNoVariants = errors.New("no variants given")

	// ErrDuplicateVariant is returned if a variant name is registered twice.
	ErrDuplicateVariant = errors.New("variant already registered")

	// ErrEmptyName is returned if a variant without name is registered.
	ErrEmptyName = errors.New("variant name must not be empty")
)

// UnknownVariantError is returned if a requested variant or base is not
// registered.
type UnknownVariantError struct {
	Name string
}

// Error implements the [error] interface.
func (e *UnknownVariantError) Error() string {
	return "unknown variant: " + e.Name
}

// Is implements the [errors.Is] interface.
func (*UnknownVariantError) Is(other error) bool {
	_, ok := other.(*UnknownVariantError)
	return ok
}

// CompositionError is returned if the requested variants can not be composed.
type CompositionError struct {
	Names []string
	Err   error
}

// Error implements the [error] interface.
func (e *CompositionError) Error() string {
	msg := "compose"
	if len(e.Names) > 0 {
		msg += " " + strings.Join(e.Names, "+")
	}

	return msg + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CompositionError) Is(other error) bool {
	_, ok := other.(*CompositionError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CompositionError) Unwrap() error {
	return e.Err
}
