// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "os"

// PageSize returns the memory page size of the system.
func PageSize() int {
	return os.Getpagesize()
}

// AlignUp rounds addr up to the next multiple of align. The alignment must be
// a power of two.
func AlignUp(addr, align uintptr) uintptr {
	mask := align - 1
	return (addr + mask) &^ mask
}

// AlignDown rounds addr down to the previous multiple of align. The alignment
// must be a power of two.
func AlignDown(addr, align uintptr) uintptr {
	return addr &^ (align - 1)
}
