// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package graph

// DepsFunc returns the direct dependencies of the given node.
type DepsFunc[K comparable] func(node K) ([]K, error)

// Discover builds a [Graph] by walking breadth-first from the given seeds.
//
// Each node is looked up with depsFn exactly once, in the order it is
// discovered. The first error returned by depsFn aborts the walk and is
// returned as is.
func Discover[K comparable](seeds []K, depsFn DepsFunc[K]) (*Graph[K], error) {
	var (
		graph Graph[K]
		queue []K
	)

	seen := make(map[K]bool)

	enqueue := func(nodes ...K) {
		for _, node := range nodes {
			if !seen[node] {
				seen[node] = true
				queue = append(queue, node)
			}
		}
	}

	enqueue(seeds...)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		deps, err := depsFn(node)
		if err != nil {
			return nil, err
		}

		graph.Add(node, deps...)
		enqueue(deps...)
	}

	return &graph, nil
}
