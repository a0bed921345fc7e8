// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package aout

import (
	"fmt"
	"io"
	"os"
)

const addressSpace = 1 << 32

// File is an opened and validated a.out file.
type File struct {
	file   *os.File
	size   int64
	header Header
	format Format
}

// Open opens the named file read-only, reads its header and validates it.
//
// The returned [File] must be closed by the caller. On error, the file is
// closed already.
func Open(name string) (*File, error) {
	osFile, err := os.Open(name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	file, err := newFile(osFile)
	if err != nil {
		_ = osFile.Close()
		return nil, err
	}

	return file, nil
}

func newFile(osFile *os.File) (*File, error) {
	info, err := osFile.Stat()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	file := &File{
		file: osFile,
		size: info.Size(),
	}

	if err := file.readHeader(osFile); err != nil {
		return nil, err
	}

	return file, nil
}

func (f *File) readHeader(reader io.ReaderAt) error {
	if f.size < HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, f.size)
	}

	hdr, err := ReadHeader(io.NewSectionReader(reader, 0, HeaderSize))
	if err != nil {
		return err
	}

	format, err := FormatFor(hdr)
	if err != nil {
		return err
	}

	f.header = hdr
	f.format = format

	return f.Validate()
}

// Validate checks the header fields and that the file is large enough for the
// segments it announces.
func (f *File) Validate() error {
	if err := f.header.Validate(); err != nil {
		return err
	}

	if f.size <= f.format.TextOffset {
		return fmt.Errorf(
			"%w: %s text starts at offset %#x but file has %d bytes",
			ErrTruncatedImage,
			f.format.Name,
			f.format.TextOffset,
			f.size,
		)
	}

	if uint64(f.ImageSize()) < f.header.SegmentsSize() {
		return fmt.Errorf(
			"%w: text and data need %d bytes but file has %d after offset %#x",
			ErrTruncatedImage,
			f.header.SegmentsSize(),
			f.ImageSize(),
			f.format.TextOffset,
		)
	}

	memEnd := uint64(f.format.LoadAddr) + max(uint64(f.ImageSize()), f.header.MemSize())
	if memEnd > addressSpace {
		return fmt.Errorf("%w: ends at %#x", ErrAddressRange, memEnd)
	}

	return nil
}

// Name returns the name of the file as passed to [Open].
func (f *File) Name() string {
	return f.file.Name()
}

// Fd returns the file descriptor of the opened file.
func (f *File) Fd() uintptr {
	return f.file.Fd()
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Header returns the validated header.
func (f *File) Header() Header {
	return f.header
}

// Format returns the format matching the header's magic.
func (f *File) Format() Format {
	return f.format
}

// ImageSize returns the number of bytes from the format's text offset to the
// end of the file. This is the part of the file that is loaded.
func (f *File) ImageSize() int64 {
	return f.size - f.format.TextOffset
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.file.Close() //nolint:wrapcheck
}
