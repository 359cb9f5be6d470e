// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package graph provides a small directed dependency graph with a
// deterministic topological linearization.
//
// Nodes keep the order they were added in. This discovery order is used for
// breaking ties, so sorting the same graph always yields the same result.
package graph
