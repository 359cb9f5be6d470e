// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package variant

// DefaultName is the variant used if none is requested.
const DefaultName = "base"

// Defaults returns the built-in variants.
func Defaults() []Variant {
	return []Variant{
		{
			Name: DefaultName,
		},
		{
			Name:  "gpu",
			Bases: []string{DefaultName},
			QemuArgs: []string{
				"-display", "gtk,gl=on,show-cursor=on,zoom-to-fit=off",
				"-device", "virtio-gpu-gl",
			},
		},
		{
			Name:     "gl",
			Bases:    []string{"gpu"},
			Modprobe: []string{"virtio-gpu"},
		},
	}
}

// DefaultRegistry returns a new [Registry] with the [Defaults] registered.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(Defaults()...)
	if err != nil {
		// Built-in variants have unique names.
		panic(err)
	}

	return registry
}
