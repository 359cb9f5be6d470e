// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package variant composes named launch configuration variants.
//
// A [Variant] contributes QEMU arguments and kernel modules to probe in the
// guest. Variants may build on other variants, their bases. Requesting
// multiple variants merges them and all their bases into one [Config]. Bases
// always contribute before the variants that build on them, and each variant
// keeps the order of its own contributions.
package variant
