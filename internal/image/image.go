// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibor/runaout/internal/aout"
	"github.com/aibor/runaout/internal/sys"
)

// Source is an opened a.out file the image is loaded from.
type Source interface {
	Fd() uintptr
	Size() int64
	Header() aout.Header
	Format() aout.Format
}

// Image is a loaded program image in the address space of the process.
type Image struct {
	// Addr is the address the text segment starts at.
	Addr uintptr
	// Len is the number of bytes copied from the file.
	Len int
	// End is the page aligned end of the mapping holding the copied bytes.
	End uintptr
	// BSS is the address of the first bss byte.
	BSS uintptr
	// BSSEnd is the address right behind the last bss byte.
	BSSEnd uintptr
	// BSSMapped is true if bss did not fit into the first mapping and got a
	// mapping of its own, starting at End.
	BSSMapped bool
	// Entry is the address execution starts at.
	Entry uintptr

	pageSize uintptr
}

// Map loads the image of the given source into memory.
//
// The whole file content after the format's text offset is copied into a
// fixed anonymous mapping at the format's load address. If bss reaches beyond
// that mapping, another one is created for the remainder. Finally bss is
// zeroed up to the end of its last page.
//
// The mappings are never released, unless [Image.Unmap] is called.
func Map(src Source, opts ...Option) (*Image, error) {
	hdr := src.Header()
	format := src.Format()

	cfg := config{
		pageSize: sys.PageSize(),
		loadAddr: format.LoadAddr,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	imageSize := src.Size() - format.TextOffset
	if imageSize <= 0 {
		return nil, fmt.Errorf("%w: %s file with %d bytes",
			ErrEmptyImage, format.Name, src.Size())
	}

	if uint64(imageSize) < hdr.SegmentsSize() {
		return nil, fmt.Errorf("%w: %d < %d",
			ErrShortImage, imageSize, hdr.SegmentsSize())
	}

	img := &Image{
		Addr:     cfg.loadAddr,
		Len:      int(imageSize),
		Entry:    uintptr(hdr.Entry),
		pageSize: uintptr(cfg.pageSize),
	}

	if cfg.hasLoadAddr {
		img.Entry = img.Entry - format.LoadAddr + cfg.loadAddr
	}

	err := sys.MapFixed(img.Addr, img.Len, sys.ProtRWX)
	if err != nil {
		err = &MapError{Op: "map image", Addr: img.Addr, Len: img.Len, Err: err}

		// Mapping low addresses is usually refused because of the kernel's
		// minimum address setting. Tell how to change it.
		return nil, errors.Join(err, sys.CheckMinAddr(cfg.prober, img.Addr))
	}

	img.End = sys.AlignUp(img.Addr+uintptr(img.Len), img.pageSize)

	slog.Debug("Mapped image",
		slog.String("format", format.Name),
		sys.AddrAttr("addr", img.Addr),
		sys.AddrAttr("end", img.End),
		slog.Int("len", img.Len))

	if err := img.copyFrom(src); err != nil {
		_ = img.Unmap()
		return nil, err
	}

	img.BSS = img.Addr + uintptr(hdr.SegmentsSize())
	img.BSSEnd = img.BSS + uintptr(hdr.BSS)

	if err := img.extendBSS(); err != nil {
		_ = img.Unmap()
		return nil, err
	}

	img.zeroBSS()

	return img, nil
}

// copyFrom copies the image part of the file into the image mapping through a
// temporary read-only mapping of the file.
func (img *Image) copyFrom(src Source) error {
	offset := int(src.Format().TextOffset)

	fileMem, err := sys.MapFile(src.Fd(), offset+img.Len)
	if err != nil {
		return fmt.Errorf("copy image: %w", err)
	}

	copy(img.Bytes(), fileMem[offset:])

	if err := sys.Unmap(fileMem); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}

	return nil
}

// extendBSS maps the part of bss that is not covered by the image mapping.
func (img *Image) extendBSS() error {
	if img.BSSEnd <= img.End {
		return nil
	}

	length := int(sys.AlignUp(img.BSSEnd, img.pageSize) - img.End)

	if err := sys.MapFixed(img.End, length, sys.ProtRW); err != nil {
		return &MapError{Op: "map bss", Addr: img.End, Len: length, Err: err}
	}

	img.BSSMapped = true

	slog.Debug("Mapped bss",
		sys.AddrAttr("addr", img.End),
		slog.Int("len", length))

	return nil
}

// zeroBSS clears bss up to the end of its last page. File content copied
// behind the data segment shares pages with bss and must not leak into it.
func (img *Image) zeroBSS() {
	clear(img.BSSBytes())

	slog.Debug("Zeroed bss",
		sys.AddrAttr("addr", img.BSS),
		sys.AddrAttr("end", img.BSSEnd))
}

// Bytes returns the bytes copied from the file.
func (img *Image) Bytes() []byte {
	return sys.Bytes(img.Addr, img.Len)
}

// BSSBytes returns bss including the rest of its last page.
func (img *Image) BSSBytes() []byte {
	end := sys.AlignUp(img.BSSEnd, img.pageSize)
	return sys.Bytes(img.BSS, int(end-img.BSS))
}

// Unmap releases all mappings of the image. The loader never calls it, since
// the image is needed until the process exits.
func (img *Image) Unmap() error {
	var errs []error

	if img.BSSMapped {
		length := int(sys.AlignUp(img.BSSEnd, img.pageSize) - img.End)
		errs = append(errs, sys.UnmapAt(img.End, length))
	}

	errs = append(errs, sys.UnmapAt(img.Addr, img.Len))

	return errors.Join(errs...)
}
