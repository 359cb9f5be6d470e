// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KernelRelease returns the release of the running kernel, as printed by
// "uname -r".
func KernelRelease() (string, error) {
	var uname unix.Utsname

	err := unix.Uname(&uname)
	if err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}

	return unix.ByteSliceToString(uname.Release[:]), nil
}

// KVMAvailable checks if KVM support is available on the host.
func KVMAvailable() bool {
	f, err := os.OpenFile("/dev/kvm", os.O_WRONLY, 0)
	if err != nil {
		return false
	}

	_ = f.Close()

	return true
}
