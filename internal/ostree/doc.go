// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ostree resolves the root directory of the booted rpm-ostree
// deployment, which is shared with the guest as its root file system.
package ostree
