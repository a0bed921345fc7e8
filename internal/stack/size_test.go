// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stack_test

import (
	"math"
	"testing"

	"github.com/aibor/runaout/internal/stack"
	"github.com/aibor/runaout/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name      string
		rlim      unix.Rlimit
		expected  int
		assertErr require.ErrorAssertionFunc
	}{
		{
			name:      "unlimited",
			rlim:      unix.Rlimit{Cur: ^uint64(0), Max: ^uint64(0)},
			expected:  8 * 1024 * 1024,
			assertErr: require.NoError,
		},
		{
			name:      "limited",
			rlim:      unix.Rlimit{Cur: 16 << 20, Max: ^uint64(0)},
			expected:  16 << 20,
			assertErr: require.NoError,
		},
		{
			name:      "unaligned",
			rlim:      unix.Rlimit{Cur: 12345, Max: 12345},
			expected:  12345,
			assertErr: require.NoError,
		},
		{
			name: "zero",
			rlim: unix.Rlimit{},
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, stack.ErrInvalidLimit)
			},
		},
		{
			name: "beyond int",
			rlim: unix.Rlimit{Cur: uint64(math.MaxInt) + 1, Max: ^uint64(0)},
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, stack.ErrInvalidLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := stack.Size(tt.rlim)
			tt.assertErr(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestSizeFromLimit(t *testing.T) {
	rlim, err := sys.StackLimit()
	require.NoError(t, err)

	expected, err := stack.Size(rlim)
	require.NoError(t, err)

	actual, err := stack.SizeFromLimit()
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestNew(t *testing.T) {
	pageSize := sys.PageSize()

	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{
			name:     "default",
			size:     stack.DefaultSize,
			expected: stack.DefaultSize,
		},
		{
			name:     "page",
			size:     pageSize,
			expected: pageSize,
		},
		{
			name:     "unaligned",
			size:     pageSize + 1,
			expected: 2 * pageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stk, err := stack.New(tt.size, pageSize)
			require.NoError(t, err)

			t.Cleanup(func() {
				assert.NoError(t, stk.Unmap())
			})

			assert.Equal(t, tt.expected, stk.Len())
			assert.Equal(t, stk.Base()+uintptr(tt.expected), stk.Top())
			assert.Zero(t, stk.Top()%uintptr(pageSize), "top must be page aligned")
		})
	}
}
