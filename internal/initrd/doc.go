// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initrd builds the compressed initial ramdisk the guest boots from.
//
// The initrd contains a busybox binary, an init script and the kernel modules
// required to mount the virtio-fs shared root file system. The init script
// loads the modules, switches into the shared root and runs the command given
// on the kernel command line. The guest is powered off once the command
// terminates, no matter how.
//
// Packaging runs in two concurrent stages connected by a pipe: an [Archiver]
// writes the uncompressed cpio archive and a [Compressor] compresses it into
// the output file.
package initrd
