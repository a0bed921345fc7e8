// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"unsafe"

	"github.com/aibor/runaout/internal/sys"
	"golang.org/x/sys/unix"
)

const statFile = "proc/self/stat"

// Fields of the process status file holding the ranges of the argument and
// environment strings, counted from 1. See proc_pid_stat(5).
const (
	statFieldArgStart = 48
	statFieldEnvEnd   = 51
)

// Vector is an array of pointers to NUL terminated strings.
type Vector []uintptr

// Strings returns copies of the strings the vector points to.
func (v Vector) Strings() []string {
	strs := make([]string, len(v))

	for idx, ptr := range v {
		//nolint:govet
		strs[idx] = unix.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
	}

	return strs
}

// OwnVectors returns the vectors for the arguments of the process from index
// skip on and for its environment.
//
// The vectors point into the original string storage of the process, if it
// can be located through the process status file in fsys and has as many
// arguments as given. Otherwise, the given args and environ are copied with
// [CopyVector].
func OwnVectors(fsys fs.FS, args, environ []string, skip int) (Vector, Vector, error) {
	argv, envp, err := procVectors(fsys)
	if err == nil && len(argv) == len(args) {
		slog.Debug("Using original argument and environment strings")

		return argv[skip:], envp, nil
	}

	slog.Debug("Copying argument and environment strings",
		slog.Any("error", err),
		slog.Int("found", len(argv)),
		slog.Int("expected", len(args)))

	argv, err = CopyVector(args[skip:])
	if err != nil {
		return nil, nil, fmt.Errorf("argv: %w", err)
	}

	envp, err = CopyVector(environ)
	if err != nil {
		return nil, nil, fmt.Errorf("envp: %w", err)
	}

	return argv, envp, nil
}

// procVectors reads the ranges of the original argument and environment
// strings from the process status file and returns vectors for them.
func procVectors(fsys fs.FS) (Vector, Vector, error) {
	stat, err := fs.ReadFile(fsys, statFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read process status: %w", err)
	}

	ranges, err := parseStringRanges(stat)
	if err != nil {
		return nil, nil, err
	}

	argv := vectorAt(ranges[0], ranges[1])
	envp := vectorAt(ranges[2], ranges[3])

	return argv, envp, nil
}

// parseStringRanges returns the fields arg_start, arg_end, env_start and
// env_end of the given process status file content.
func parseStringRanges(stat []byte) ([4]uintptr, error) {
	var ranges [4]uintptr

	// The command name in field 2 may contain spaces and parentheses, so
	// start after its last closing parenthesis, at field 3.
	idx := bytes.LastIndexByte(stat, ')')
	if idx < 0 {
		return ranges, fmt.Errorf("%w: no command name", ErrInvalidStat)
	}

	fields := bytes.Fields(stat[idx+1:])

	const firstField = 3
	if len(fields) < statFieldEnvEnd-firstField+1 {
		return ranges, fmt.Errorf("%w: %d fields", ErrInvalidStat, len(fields)+firstField-1)
	}

	for pos := range ranges {
		field := fields[statFieldArgStart-firstField+pos]

		value, err := strconv.ParseUint(string(field), 10, int(wordSize)*8)
		if err != nil {
			return ranges, fmt.Errorf("%w: field %d: %w",
				ErrInvalidStat, statFieldArgStart+pos, err)
		}

		ranges[pos] = uintptr(value)
	}

	if ranges[0] > ranges[1] || ranges[2] > ranges[3] {
		return ranges, fmt.Errorf("%w: invalid ranges", ErrInvalidStat)
	}

	return ranges, nil
}

// vectorAt returns pointers to all NUL terminated strings in memory from start
// to end.
func vectorAt(start, end uintptr) Vector {
	vec := Vector{}
	block := sys.Bytes(start, int(end-start))
	strStart := 0

	for idx, b := range block {
		if b != 0 {
			continue
		}

		vec = append(vec, start+uintptr(strStart))
		strStart = idx + 1
	}

	return vec
}

// CopyVector copies the given strings NUL terminated into a new mapping and
// returns a vector pointing to them. The mapping is never released.
func CopyVector(strs []string) (Vector, error) {
	length := 0
	for _, str := range strs {
		length += len(str) + 1
	}

	mem, err := sys.MapAnon(max(length, 1), sys.ProtRW)
	if err != nil {
		return nil, fmt.Errorf("map strings: %w", err)
	}

	vec := make(Vector, 0, len(strs))
	base := sys.Addr(mem)
	offset := 0

	for _, str := range strs {
		vec = append(vec, base+uintptr(offset))
		offset += copy(mem[offset:], str) + 1
	}

	return vec, nil
}
