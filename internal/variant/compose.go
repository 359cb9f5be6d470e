// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package variant

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/aibor/sandboxvm/internal/graph"
)

// NameSeparator joins the requested variant names into the [Config] name.
const NameSeparator = "+"

// Config is the result of composing one or more variants.
type Config struct {
	// Name is the sorted list of requested variant names joined by
	// [NameSeparator].
	Name string

	// QemuArgs are the merged QEMU arguments of all composed variants.
	QemuArgs []string

	// Modprobe are the merged kernel modules of all composed variants.
	Modprobe []string
}

// Compose merges the variants with the given names and all their transitive
// bases into a single [Config].
//
// Bases contribute before the variants building on them. Variants not
// depending on each other contribute in the order they are discovered by a
// breadth-first walk starting at the sorted requested names. So, composing
// the same set of names always gives the same result, regardless of the order
// or duplication of the names.
//
// Unknown names result in an [UnknownVariantError]. Cyclic bases result in a
// [CompositionError] wrapping [graph.ErrCycle].
func (r *Registry) Compose(names ...string) (Config, error) {
	if len(names) == 0 {
		return Config{}, &CompositionError{Err: ErrNoVariants}
	}

	requested := lo.Uniq(names)
	slices.Sort(requested)

	for _, name := range requested {
		_, err := r.Lookup(name)
		if err != nil {
			return Config{}, err
		}
	}

	deps, err := graph.Discover(requested, r.bases)
	if err != nil {
		var unknownErr *UnknownVariantError
		if errors.As(err, &unknownErr) {
			return Config{}, unknownErr
		}

		return Config{}, &CompositionError{Names: requested, Err: err}
	}

	order, err := deps.Sort()
	if err != nil {
		return Config{}, &CompositionError{Names: requested, Err: err}
	}

	cfg := Config{
		Name: strings.Join(requested, NameSeparator),
	}

	for _, name := range order {
		v := r.variants[name]
		cfg.QemuArgs = append(cfg.QemuArgs, v.QemuArgs...)
		cfg.Modprobe = append(cfg.Modprobe, v.Modprobe...)
	}

	return cfg, nil
}
