// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack

import (
	"os"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"unsafe"

	"github.com/aibor/runaout/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statLine builds a process status line with the given string ranges in
// fields 48 to 51.
func statLine(comm string, ranges [4]uintptr) string {
	fields := []string{"1234", "(" + comm + ")", "S"}
	for len(fields) < statFieldArgStart-1 {
		fields = append(fields, "0")
	}

	for _, value := range ranges {
		fields = append(fields, strconv.FormatUint(uint64(value), 10))
	}

	fields = append(fields, "0")

	return strings.Join(fields, " ") + "\n"
}

func stringAddr(str string) uintptr {
	return uintptr(unsafe.Pointer(unsafe.StringData(str)))
}

func TestParseStringRanges(t *testing.T) {
	expected := [4]uintptr{0x1000, 0x1010, 0x1010, 0x1100}

	tests := []struct {
		name      string
		stat      string
		expected  [4]uintptr
		assertErr require.ErrorAssertionFunc
	}{
		{
			name:      "plain name",
			stat:      statLine("runaout", expected),
			expected:  expected,
			assertErr: require.NoError,
		},
		{
			name:      "name with spaces and parentheses",
			stat:      statLine("a) (b c", expected),
			expected:  expected,
			assertErr: require.NoError,
		},
		{
			name: "no name",
			stat: "1234 runaout S 0",
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, ErrInvalidStat)
			},
		},
		{
			name: "too few fields",
			stat: "1234 (runaout) S 0 0 0",
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, ErrInvalidStat)
			},
		},
		{
			name: "start after end",
			stat: statLine("runaout", [4]uintptr{0x2000, 0x1000, 0, 0}),
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, ErrInvalidStat)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseStringRanges([]byte(tt.stat))
			tt.assertErr(t, err)

			if err == nil {
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestVectorAt(t *testing.T) {
	content := "first\x00\x00third=3\x00"

	mem, err := sys.MapAnon(len(content), sys.ProtRW)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, sys.Unmap(mem))
	})

	copy(mem, content)
	start := sys.Addr(mem)

	vec := vectorAt(start, start+uintptr(len(content)))
	assert.Equal(t, Vector{start, start + 6, start + 7}, vec)
	assert.Equal(t, []string{"first", "", "third=3"}, vec.Strings())

	assert.Empty(t, vectorAt(start, start))
}

func TestCopyVector(t *testing.T) {
	strs := []string{"a", "", "longer value"}

	vec, err := CopyVector(strs)
	require.NoError(t, err)
	assert.Equal(t, strs, vec.Strings())

	vec, err = CopyVector(nil)
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestOwnVectors(t *testing.T) {
	if len(os.Args) < 2 {
		t.Skip("test binary needs at least one argument")
	}

	argv, envp, err := OwnVectors(os.DirFS("/"), os.Args, os.Environ(), 1)
	require.NoError(t, err)

	assert.Equal(t, os.Args[1:], argv.Strings())
	assert.Equal(t, os.Environ(), envp.Strings())
}

func TestOwnVectorsBorrowsOriginalStrings(t *testing.T) {
	argv, _, err := procVectors(os.DirFS("/"))
	require.NoError(t, err)
	require.Len(t, argv, len(os.Args))

	for idx, arg := range os.Args {
		if arg == "" {
			continue
		}

		// The Go runtime does not copy the argument strings.
		assert.Equal(t, argv[idx], stringAddr(arg), "argument %d", idx)
	}
}

func TestOwnVectorsFallback(t *testing.T) {
	fsys := fstest.MapFS{
		statFile: &fstest.MapFile{Data: []byte("garbage")},
	}

	args := []string{"runaout", "./hello", "world"}
	environ := []string{"A=1", "B=2"}

	argv, envp, err := OwnVectors(fsys, args, environ, 1)
	require.NoError(t, err)

	assert.Equal(t, args[1:], argv.Strings())
	assert.Equal(t, environ, envp.Strings())
}
