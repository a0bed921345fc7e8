// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package aout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTruncatedHeader is returned if a file is too small to contain a
	// header.
	ErrTruncatedHeader = errors.New("too small to read a.out header")

	// ErrTruncatedImage is returned if a file is too small to contain the
	// text and data segments its header announces.
	ErrTruncatedImage = errors.New("too small for announced segments")

	// ErrUnknownFormat is returned if the header magic matches none of the
	// supported formats.
	ErrUnknownFormat = errors.New("not an ia32 QMAGIC or ZMAGIC a.out binary")

	// ErrRelocatable is returned if the header announces a symbol table or
	// relocation entries.
	ErrRelocatable = errors.New("not a fully linked, stripped image")

	// ErrAddressRange is returned if the image does not fit into the 32 bit
	// address space.
	ErrAddressRange = errors.New("image exceeds 32 bit address space")
)

// MagicError is returned if the header magic is unknown. It carries the
// actual value and the values of all supported formats.
type MagicError struct {
	Actual   uint32
	Expected []Format
}

func (e *MagicError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, format := range e.Expected {
		expected = append(expected, fmt.Sprintf("%s 0x%08x", format.Name, format.Magic))
	}

	return fmt.Sprintf(
		"%v (header 0x%08x, expected %s)",
		ErrUnknownFormat,
		e.Actual,
		strings.Join(expected, " or "),
	)
}

func (*MagicError) Is(other error) bool {
	return other == ErrUnknownFormat
}

// FieldError is returned if a header field that must be zero is not.
type FieldError struct {
	Field string
	Value uint32
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("a.out header %s must be 0, got %d", e.Field, e.Value)
}

func (*FieldError) Is(other error) bool {
	return other == ErrRelocatable
}
