// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/aibor/runaout/internal/sys"
)

const wordSize = uintptr(sys.WordSize)

// Stack is a memory region used as initial stack of a loaded program.
type Stack struct {
	mem  []byte
	base uintptr
	top  uintptr
}

// New maps a stack of at least size bytes. The size is rounded up to the
// given page size, so the top of the stack is page aligned.
func New(size int, pageSize int) (*Stack, error) {
	length := int(sys.AlignUp(uintptr(size), uintptr(pageSize)))

	mem, err := sys.MapAnon(length, sys.ProtRWX)
	if err != nil {
		return nil, fmt.Errorf("map stack: %w", err)
	}

	base := sys.Addr(mem)

	stack := &Stack{
		mem:  mem,
		base: base,
		top:  sys.AlignDown(base+uintptr(len(mem)), uintptr(pageSize)),
	}

	slog.Debug("Mapped stack",
		sys.AddrAttr("base", stack.base),
		sys.AddrAttr("top", stack.top),
		slog.Int("len", len(mem)))

	return stack, nil
}

// Base returns the lowest address of the stack.
func (s *Stack) Base() uintptr {
	return s.base
}

// Top returns the address right above the stack.
func (s *Stack) Top() uintptr {
	return s.top
}

// Len returns the size of the stack in bytes.
func (s *Stack) Len() int {
	return len(s.mem)
}

// Unmap releases the stack. The loader never calls it, since the stack is
// handed over to the loaded program.
func (s *Stack) Unmap() error {
	return sys.Unmap(s.mem)
}

// Frame is the startup frame at the top of a [Stack].
type Frame struct {
	// SP is the initial stack pointer. It points at argc.
	SP uintptr
	// Argc is the number of arguments.
	Argc int
	// Argv is the address of the argument pointer array.
	Argv uintptr
	// Envp is the address of the environment pointer array.
	Envp uintptr
}

// Build lays out the startup frame for the given vectors at the top of the
// stack. The vectors are copied into the frame's arrays, the strings they
// point to are not.
func (s *Stack) Build(argv, envp Vector) (Frame, error) {
	words := uintptr(1 + len(envp) + 1 + len(argv) + 1 + 3)
	if words*wordSize > s.top-s.base {
		return Frame{}, fmt.Errorf("%w: %d words do not fit %d bytes",
			ErrFrameTooLarge, words, s.top-s.base)
	}

	// The word at the top stays zero.
	sp := s.top - wordSize
	s.putWord(sp, 0)

	sp -= uintptr(len(envp)+1) * wordSize
	envpAddr := sp

	sp -= uintptr(len(argv)+1) * wordSize
	argvAddr := sp

	frame := Frame{
		Argc: len(argv),
		Argv: argvAddr,
		Envp: envpAddr,
	}

	sp -= wordSize
	s.putWord(sp, envpAddr)

	sp -= wordSize
	s.putWord(sp, argvAddr)

	sp -= wordSize
	s.putWord(sp, uintptr(frame.Argc))

	frame.SP = sp

	s.putVector(argvAddr, argv)
	s.putVector(envpAddr, envp)

	slog.Debug("Built startup frame",
		sys.AddrAttr("sp", frame.SP),
		slog.Int("argc", frame.Argc),
		slog.Int("envc", len(envp)))

	return frame, nil
}

// putVector writes the vector followed by a NULL pointer to addr.
func (s *Stack) putVector(addr uintptr, vec Vector) {
	for _, ptr := range vec {
		s.putWord(addr, ptr)
		addr += wordSize
	}

	s.putWord(addr, 0)
}

func (s *Stack) putWord(addr, value uintptr) {
	word := s.mem[addr-s.base:]

	if wordSize == 4 {
		binary.NativeEndian.PutUint32(word, uint32(value))
	} else {
		binary.NativeEndian.PutUint64(word, uint64(value))
	}
}
