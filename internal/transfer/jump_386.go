// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

const supported = true

// jump loads sp into the stack pointer register and jumps to entry. Both
// happen in consecutive instructions. It does not return.
func jump(sp, entry uintptr)
