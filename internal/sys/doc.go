// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sys provides helpers for interacting with the host system: running
// commands on the host, possibly from inside a sandbox, and querying kernel
// and file system properties.
package sys
