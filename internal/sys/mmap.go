// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Protection flags for mappings.
const (
	ProtRW  = unix.PROT_READ | unix.PROT_WRITE
	ProtRWX = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
)

// MapFixed maps anonymous, zero-filled memory at exactly addr.
//
// The address is mandatory. If any part of the range is mapped already,
// mmap fails with EEXIST. Kernels older than 4.17 do not know
// MAP_FIXED_NOREPLACE and treat the address as hint, so the returned address
// is checked as well and the mapping is released again if it does not match.
func MapFixed(addr uintptr, length int, prot int) error {
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | unix.MAP_FIXED_NOREPLACE

	//nolint:govet
	ptr, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), uintptr(length), prot, flags)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}

	if uintptr(ptr) != addr {
		_ = unix.MunmapPtr(ptr, uintptr(length))
		return fmt.Errorf("%w: %#x instead of %#x", ErrMapMoved, uintptr(ptr), addr)
	}

	return nil
}

// MapAnon maps anonymous, zero-filled memory anywhere in the address space.
func MapAnon(length int, prot int) ([]byte, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS

	mem, err := unix.Mmap(-1, 0, length, prot, flags)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return mem, nil
}

// MapFile maps the first length bytes of the file read-only. The mapping must
// be released with [Unmap].
func MapFile(fd uintptr, length int) ([]byte, error) {
	mem, err := unix.Mmap(int(fd), 0, length, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	return mem, nil
}

// Unmap releases a mapping returned by [MapAnon] or [MapFile].
func Unmap(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	return nil
}

// UnmapAt releases the mapping at addr of the given length.
func UnmapAt(addr uintptr, length int) error {
	//nolint:govet
	if err := unix.MunmapPtr(unsafe.Pointer(addr), uintptr(length)); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	return nil
}

// Bytes returns a slice over length bytes of mapped memory at addr.
//
// It works for addr 0 as well, which [unsafe.Slice] refuses. The memory is
// not managed by the Go runtime and must stay mapped as long as the slice is
// used.
func Bytes(addr uintptr, length int) []byte {
	var mem []byte

	hdr := (*sliceHeader)(unsafe.Pointer(&mem))
	hdr.data = addr
	hdr.len = length
	hdr.cap = length

	return mem
}

// Addr returns the address of the first byte of the given slice.
func Addr(mem []byte) uintptr {
	return (*sliceHeader)(unsafe.Pointer(&mem)).data
}

type sliceHeader struct {
	data uintptr
	len  int
	cap  int
}

// StackLimit returns the current stack size resource limit.
func StackLimit() (unix.Rlimit, error) {
	var rlim unix.Rlimit

	if err := unix.Getrlimit(unix.RLIMIT_STACK, &rlim); err != nil {
		return rlim, fmt.Errorf("getrlimit: %w", err)
	}

	return rlim, nil
}
