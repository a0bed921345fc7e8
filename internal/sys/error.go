// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"errors"
	"fmt"
)

var (
	// ErrArchNotSupported is returned if the requested operation is not
	// available on the architecture the loader is built for.
	ErrArchNotSupported = errors.New("architecture not supported")

	// ErrWordSize is returned if the loader is built with a word size the
	// images can not be run with.
	ErrWordSize = errors.New("unsupported word size")

	// ErrMapMoved is returned if the kernel placed a fixed mapping at a
	// different address than requested.
	ErrMapMoved = errors.New("mapping not placed at requested address")

	// ErrInvalidSetting is returned if a kernel setting has an unexpected
	// format.
	ErrInvalidSetting = errors.New("invalid setting")
)

// MinAddrError is returned if an address is below the lowest address the
// kernel allows user space to map.
type MinAddrError struct {
	Current  uint64
	Required uintptr
}

func (e *MinAddrError) Error() string {
	return fmt.Sprintf(
		"%s is set to %d but the image must be mapped at %#x",
		MinAddrSetting,
		e.Current,
		e.Required,
	)
}

func (*MinAddrError) Is(other error) bool {
	_, ok := other.(*MinAddrError)
	return ok
}

// Hint returns the command that lowers the setting far enough.
func (e *MinAddrError) Hint() string {
	return fmt.Sprintf(
		"to temporarily change this, run: sudo sysctl -w %s=%d",
		MinAddrSetting,
		e.Required,
	)
}
