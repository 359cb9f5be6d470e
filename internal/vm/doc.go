// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vm launches the guest: two virtiofsd daemons sharing the host
// deployment root and the workspace, and the QEMU process using them.
//
// The daemons are always terminated once QEMU returned, in reverse start
// order, no matter if QEMU or anything before it failed.
package vm
