// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kmod resolves Linux kernel modules and their dependencies into an
// order in which they can be loaded one by one.
//
// Module metadata is provided by a [Metadata] implementation. [Modinfo]
// queries the "modinfo" tool, [ModulesDep] reads a "modules.dep" index.
package kmod
