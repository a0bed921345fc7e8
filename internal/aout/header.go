// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package aout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size of the on-disk header in bytes.
const HeaderSize = 32

// ByteOrder of all header fields.
var ByteOrder = binary.LittleEndian

// Header is the fixed size header at the start of an a.out file. All sizes
// are in bytes.
type Header struct {
	Info      uint32 // machine type and magic
	Text      uint32
	Data      uint32
	BSS       uint32
	Syms      uint32
	Entry     uint32
	TextReloc uint32
	DataReloc uint32
}

// ReadHeader decodes a [Header] from the given reader.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr Header

	if err := binary.Read(r, ByteOrder, &hdr); err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	return hdr, nil
}

// MarshalBinary encodes the header in its on-disk layout.
func (h Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	buf.Grow(HeaderSize)

	if err := binary.Write(&buf, ByteOrder, h); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return buf.Bytes(), nil
}

// Validate returns a [FieldError] for the first of the symbol table size and
// the relocation sizes that is not zero.
func (h Header) Validate() error {
	fields := []struct {
		name  string
		value uint32
	}{
		{"a_syms", h.Syms},
		{"a_trsize", h.TextReloc},
		{"a_drsize", h.DataReloc},
	}

	for _, field := range fields {
		if field.value != 0 {
			return &FieldError{Field: field.name, Value: field.value}
		}
	}

	return nil
}

// SegmentsSize returns the size of text and data, the part of the image that
// is read from the file.
func (h Header) SegmentsSize() uint64 {
	return uint64(h.Text) + uint64(h.Data)
}

// MemSize returns the size of text, data and bss.
func (h Header) MemSize() uint64 {
	return h.SegmentsSize() + uint64(h.BSS)
}
