// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package aout

// Format describes the memory and file layout of an a.out sub-format.
type Format struct {
	Name  string
	Magic uint32
	// LoadAddr is the address the text segment must be mapped at.
	LoadAddr uintptr
	// TextOffset is the file offset the text segment starts at.
	TextOffset int64
}

// Supported formats. The magic includes the machine type M_386 (100) in the
// upper half.
var (
	// QMAGIC images are loaded at the second page. The header is part of the
	// text segment, so the file is mapped from its start.
	QMagic = Format{
		Name:       "QMAGIC",
		Magic:      0x006400cc,
		LoadAddr:   0x1000,
		TextOffset: 0,
	}

	// ZMAGIC images are loaded at address zero. The header is padded to a
	// full page that is not part of the image.
	ZMagic = Format{
		Name:       "ZMAGIC",
		Magic:      0x0064010b,
		LoadAddr:   0,
		TextOffset: 0x1000,
	}
)

// Formats are all supported formats.
var Formats = []Format{QMagic, ZMagic}

// FormatFor returns the [Format] matching the header's magic exactly. If none
// matches, a [MagicError] is returned.
func FormatFor(hdr Header) (Format, error) {
	for _, format := range Formats {
		if hdr.Info == format.Magic {
			return format, nil
		}
	}

	return Format{}, &MagicError{
		Actual:   hdr.Info,
		Expected: Formats,
	}
}
