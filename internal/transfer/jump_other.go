// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !386

package transfer

import "github.com/aibor/runaout/internal/sys"

const supported = false

func jump(_, _ uintptr) {
	panic("jump not implemented for this architecture")
}

func forwardExit(_ int) error {
	return sys.ErrArchNotSupported
}
