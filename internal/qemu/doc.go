// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes the QEMU command line for a guest that boots from an
// initrd and mounts its root and workspace file systems over virtio-fs.
//
// virtio-fs requires the guest memory to be shared with the vhost-user
// daemons, so the memory is always backed by a shared memfd bound to a single
// NUMA node. The device tags "sysroot" and "workspace" must match what the
// guest init mounts.
package qemu
