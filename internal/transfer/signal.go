// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blockSignal adds sig to the signal mask of the calling thread. All other
// signals stay as they are.
func blockSignal(sig unix.Signal) error {
	var set unix.Sigset_t

	idx, bit := sigsetBit(&set, sig)
	set.Val[idx] |= 1 << bit

	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &set, nil); err != nil {
		return fmt.Errorf("block %s: %w", unix.SignalName(sig), err)
	}

	return nil
}

// sigsetBit returns the element of the set and the bit in it for sig.
func sigsetBit(set *unix.Sigset_t, sig unix.Signal) (int, uint) {
	width := uint(unsafe.Sizeof(set.Val[0])) * 8
	pos := uint(sig) - 1

	return int(pos / width), pos % width
}
