// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package aout

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTestFile writes an image file into a temporary directory and returns
// its path. The header is written at the start, the payload at the format's
// text offset, or right after the header if the header is part of the text.
func WriteTestFile(tb testing.TB, hdr Header, payload []byte) string {
	tb.Helper()

	content, err := hdr.MarshalBinary()
	if err != nil {
		tb.Fatalf("marshal header: %v", err)
	}

	format, err := FormatFor(hdr)
	if err == nil && format.TextOffset > HeaderSize {
		padded := make([]byte, format.TextOffset)
		copy(padded, content)
		content = padded
	}

	content = append(content, payload...)

	path := filepath.Join(tb.TempDir(), "a.out")

	if err := os.WriteFile(path, content, 0o755); err != nil {
		tb.Fatalf("write test file: %v", err)
	}

	return path
}
