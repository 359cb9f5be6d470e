// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kmod

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/aibor/sandboxvm/internal/graph"
)

// Metadata provides information about kernel modules.
type Metadata interface {
	// Depends returns the names of the modules the named module directly
	// depends on.
	Depends(ctx context.Context, name string) ([]string, error)

	// Path returns the absolute path of the named module's file, or
	// [BuiltinPath] if it is compiled into the kernel.
	Path(ctx context.Context, name string) (string, error)
}

// Resolve expands the given seed modules by all their transitive dependencies
// and returns them in an order in which they can be loaded: every module comes
// after all its dependencies. Modules that become ready at the same time are
// ordered as they were discovered by a breadth-first walk from the seeds.
//
// Modules compiled into the kernel are not part of the result, but their
// dependencies are.
//
// Any metadata lookup error aborts the resolution. All errors are returned as
// [ResolutionError].
func Resolve(
	ctx context.Context,
	meta Metadata,
	seeds ...string,
) ([]Module, error) {
	modules := make(map[string]Module)

	lookup := func(name string) ([]string, error) {
		module, err := lookupModule(ctx, meta, name)
		if err != nil {
			return nil, &ResolutionError{Module: name, Err: err}
		}

		modules[name] = module

		return module.Depends, nil
	}

	seeds = lo.Map(seeds, func(name string, _ int) string {
		return NormalizeName(name)
	})

	deps, err := graph.Discover(seeds, lookup)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	order, err := deps.Sort()
	if err != nil {
		return nil, &ResolutionError{Err: err}
	}

	resolved := make([]Module, 0, len(order))

	for _, name := range order {
		module := modules[name]
		if module.Builtin() {
			slog.Debug("Skipping builtin module", slog.String("module", name))
			continue
		}

		resolved = append(resolved, module)
	}

	return resolved, nil
}

func lookupModule(ctx context.Context, meta Metadata, name string) (Module, error) {
	deps, err := meta.Depends(ctx, name)
	if err != nil {
		return Module{}, err //nolint:wrapcheck
	}

	path, err := meta.Path(ctx, name)
	if err != nil {
		return Module{}, err //nolint:wrapcheck
	}

	deps = lo.Map(deps, func(dep string, _ int) string {
		return NormalizeName(dep)
	})

	return Module{
		Name:    name,
		Depends: lo.Uniq(lo.Compact(deps)),
		Path:    path,
	}, nil
}
