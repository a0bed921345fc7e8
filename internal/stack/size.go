// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack

import (
	"fmt"
	"math"

	"github.com/aibor/runaout/internal/sys"
	"golang.org/x/sys/unix"
)

// DefaultSize is used if the stack size limit is unlimited.
const DefaultSize = 8 << 20

const rlimInfinity = ^uint64(0)

// Size returns the stack size for the given resource limit. The current value
// is used, or [DefaultSize] if it is unlimited.
func Size(rlim unix.Rlimit) (int, error) {
	switch {
	case rlim.Cur == rlimInfinity:
		return DefaultSize, nil
	case rlim.Cur == 0:
		return 0, fmt.Errorf("%w: zero", ErrInvalidLimit)
	case rlim.Cur > math.MaxInt:
		return 0, fmt.Errorf("%w: %d exceeds address space", ErrInvalidLimit, rlim.Cur)
	}

	return int(rlim.Cur), nil
}

// SizeFromLimit returns the stack size for the current stack size limit of the
// process.
func SizeFromLimit() (int, error) {
	rlim, err := sys.StackLimit()
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return Size(rlim)
}
