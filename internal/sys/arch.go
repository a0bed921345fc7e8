// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"runtime"
	"unsafe"
)

type Arch string

// Architectures the loader knows about.
const (
	I386  Arch = "386"
	AMD64 Arch = "amd64"
)

// Native is the architecture the loader is built for.
const Native Arch = Arch(runtime.GOARCH)

// WordSize is the size of a machine word and a pointer in bytes.
const WordSize = int(unsafe.Sizeof(uintptr(0)))

// ImageWordSize is the word size a.out images are built with.
const ImageWordSize = 4

func (a Arch) String() string {
	return string(a)
}

// RequireImageWordSize returns [ErrWordSize] if the loader is not built with
// the word size of the images it loads. Images expect 32 bit pointers in their
// startup frame, so a loader built for a 64 bit architecture can not serve
// them.
func RequireImageWordSize() error {
	return requireWordSize(WordSize, Native)
}

func requireWordSize(size int, arch Arch) error {
	if size != ImageWordSize {
		return fmt.Errorf(
			"%w: built for %s with %d bit words, rebuild with GOARCH=%s",
			ErrWordSize,
			arch,
			size*8,
			I386,
		)
	}

	return nil
}
