// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package graph

import (
	"fmt"
	"slices"
)

// Graph is a directed graph of nodes and their direct dependencies.
//
// The zero value is ready to use.
type Graph[K comparable] struct {
	nodes []K
	deps  map[K][]K
}

// Add adds the node with its direct dependencies. Adding a node that exists
// already appends the given dependencies to the existing ones. Duplicate
// dependencies are ignored.
func (g *Graph[K]) Add(node K, deps ...K) {
	if g.deps == nil {
		g.deps = make(map[K][]K)
	}

	existing, exists := g.deps[node]
	if !exists {
		g.nodes = append(g.nodes, node)
	}

	for _, dep := range deps {
		if !slices.Contains(existing, dep) {
			existing = append(existing, dep)
		}
	}

	g.deps[node] = existing
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int {
	return len(g.nodes)
}

// Nodes returns the nodes in the order they were added.
func (g *Graph[K]) Nodes() []K {
	return slices.Clone(g.nodes)
}

// Deps returns the direct dependencies of the given node.
func (g *Graph[K]) Deps(node K) []K {
	return slices.Clone(g.deps[node])
}

// Sort returns all nodes ordered so that every node comes after all of its
// dependencies. Among nodes that are ready at the same time, the one added
// first comes first.
//
// It returns an error wrapping [ErrCycle] if the dependencies are cyclic and
// one wrapping [ErrUnknownNode] if a dependency has not been added as node.
// No partial result is returned in either case.
func (g *Graph[K]) Sort() ([]K, error) {
	pending := make(map[K]int, len(g.nodes))

	for _, node := range g.nodes {
		for _, dep := range g.deps[node] {
			if _, exists := g.deps[dep]; !exists {
				return nil, fmt.Errorf("%w: %v (required by %v)",
					ErrUnknownNode, dep, node)
			}
		}

		pending[node] = len(g.deps[node])
	}

	dependents := make(map[K][]K, len(g.nodes))

	for _, node := range g.nodes {
		for _, dep := range g.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	sorted := make([]K, 0, len(g.nodes))
	done := make(map[K]bool, len(g.nodes))

	// Scanning in insertion order on each round keeps the result stable.
	for len(sorted) < len(g.nodes) {
		next, found := g.nextReady(pending, done)
		if !found {
			return nil, fmt.Errorf("%w: %v", ErrCycle, g.remaining(done))
		}

		done[next] = true
		sorted = append(sorted, next)

		for _, dependent := range dependents[next] {
			pending[dependent]--
		}
	}

	return sorted, nil
}

func (g *Graph[K]) nextReady(pending map[K]int, done map[K]bool) (K, bool) {
	for _, node := range g.nodes {
		if !done[node] && pending[node] == 0 {
			return node, true
		}
	}

	var zero K

	return zero, false
}

func (g *Graph[K]) remaining(done map[K]bool) []K {
	var remaining []K

	for _, node := range g.nodes {
		if !done[node] {
			remaining = append(remaining, node)
		}
	}

	return remaining
}
