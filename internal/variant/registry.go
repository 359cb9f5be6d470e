// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package variant

import (
	"fmt"
	"maps"
	"slices"
)

// Variant is a named, composable unit of launch configuration.
type Variant struct {
	// Name of the variant. Must be unique in a [Registry].
	Name string

	// Bases are the names of the variants this one builds on.
	Bases []string

	// QemuArgs are additional QEMU arguments, passed verbatim.
	QemuArgs []string

	// Modprobe are kernel modules the guest probes before starting the shell.
	Modprobe []string
}

// Registry holds all known variants. Variants can only be added, never
// replaced or removed.
type Registry struct {
	variants map[string]Variant
}

// NewRegistry creates a new [Registry] with the given variants registered.
func NewRegistry(variants ...Variant) (*Registry, error) {
	registry := &Registry{
		variants: make(map[string]Variant, len(variants)),
	}

	for _, v := range variants {
		err := registry.Register(v)
		if err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register adds the given [Variant]. Its bases do not need to be registered
// yet. Missing bases are reported on [Registry.Compose].
func (r *Registry) Register(v Variant) error {
	if v.Name == "" {
		return ErrEmptyName
	}

	if _, exists := r.variants[v.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVariant, v.Name)
	}

	if r.variants == nil {
		r.variants = make(map[string]Variant)
	}

	r.variants[v.Name] = Variant{
		Name:     v.Name,
		Bases:    slices.Clone(v.Bases),
		QemuArgs: slices.Clone(v.QemuArgs),
		Modprobe: slices.Clone(v.Modprobe),
	}

	return nil
}

// Lookup returns the [Variant] with the given name. It returns an
// [UnknownVariantError] if no such variant is registered.
func (r *Registry) Lookup(name string) (Variant, error) {
	v, exists := r.variants[name]
	if !exists {
		return Variant{}, &UnknownVariantError{Name: name}
	}

	return v, nil
}

// Names returns the names of all registered variants, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.variants))
}

func (r *Registry) bases(name string) ([]string, error) {
	v, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	return v.Bases, nil
}
