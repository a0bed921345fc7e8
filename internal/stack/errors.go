// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack

import "errors"

var (
	// ErrFrameTooLarge is returned if the startup frame does not fit into
	// the stack.
	ErrFrameTooLarge = errors.New("startup frame exceeds stack")

	// ErrInvalidLimit is returned if the stack size limit can not be used
	// as stack size.
	ErrInvalidLimit = errors.New("invalid stack size limit")

	// ErrInvalidStat is returned if the process status file can not be
	// parsed.
	ErrInvalidStat = errors.New("invalid process status")
)
