// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package graph

import "errors"

var (
	// ErrCycle is returned if the graph has a dependency cycle.
	ErrCycle = errors.New("dependency cycle")

	// ErrUnknownNode is returned if a node depends on a node that has not
	// been added to the graph.
	ErrUnknownNode = errors.New("unknown node")
)
