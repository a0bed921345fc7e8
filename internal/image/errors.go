// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"errors"
	"fmt"
)

var (
	// ErrMap is returned if memory could not be mapped.
	ErrMap = errors.New("mapping failed")

	// ErrEmptyImage is returned if the source has no bytes to load.
	ErrEmptyImage = errors.New("image is empty")

	// ErrShortImage is returned if the source has less bytes than its text
	// and data segments need.
	ErrShortImage = errors.New("image shorter than text and data")
)

// MapError records a failed mapping with its target range.
type MapError struct {
	Op   string
	Addr uintptr
	Len  int
	Err  error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("%s at %#x (%d bytes): %v", e.Op, e.Addr, e.Len, e.Err)
}

func (*MapError) Is(other error) bool {
	return other == ErrMap
}

func (e *MapError) Unwrap() error {
	return e.Err
}
