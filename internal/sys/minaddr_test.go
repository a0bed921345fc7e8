// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"testing"
	"testing/fstest"

	"github.com/aibor/runaout/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minAddrPath = "proc/sys/vm/mmap_min_addr"

func TestProcMinAddr_MinMapAddr(t *testing.T) {
	fsys := fstest.MapFS{
		minAddrPath: &fstest.MapFile{Data: []byte("65536\n")},
	}

	prober := &sys.ProcMinAddr{FS: fsys}

	actual, err := prober.MinMapAddr()
	require.NoError(t, err)
	assert.Equal(t, uint64(65536), actual)
}

func TestProcMinAddr_MinMapAddrMissing(t *testing.T) {
	prober := &sys.ProcMinAddr{FS: fstest.MapFS{}}

	_, err := prober.MinMapAddr()
	require.ErrorContains(t, err, sys.MinAddrSetting)
}

func TestCheckMinAddr(t *testing.T) {
	withSetting := func(value string) sys.MinAddrProber {
		return &sys.ProcMinAddr{FS: fstest.MapFS{
			minAddrPath: &fstest.MapFile{Data: []byte(value)},
		}}
	}

	tests := []struct {
		name     string
		prober   sys.MinAddrProber
		addr     uintptr
		expected error
	}{
		{
			name:   "no prober",
			prober: nil,
			addr:   0x1000,
		},
		{
			name:   "setting absent",
			prober: &sys.ProcMinAddr{FS: fstest.MapFS{}},
			addr:   0x1000,
		},
		{
			name:   "setting invalid",
			prober: withSetting("nope"),
			addr:   0x1000,
		},
		{
			name:   "equal to address",
			prober: withSetting("4096"),
			addr:   0x1000,
		},
		{
			name:   "zero allows zero",
			prober: withSetting("0"),
			addr:   0,
		},
		{
			name:   "above address",
			prober: withSetting("65536"),
			addr:   0x1000,
			expected: &sys.MinAddrError{
				Current:  65536,
				Required: 0x1000,
			},
		},
		{
			name:   "above zero",
			prober: withSetting("4096"),
			addr:   0,
			expected: &sys.MinAddrError{
				Current:  4096,
				Required: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.CheckMinAddr(tt.prober, tt.addr)
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestMinAddrError(t *testing.T) {
	err := &sys.MinAddrError{Current: 65536, Required: 0x1000}

	assert.Equal(t,
		"vm.mmap_min_addr is set to 65536 but the image must be mapped at 0x1000",
		err.Error(),
	)
	assert.Equal(t,
		"to temporarily change this, run: sudo sysctl -w vm.mmap_min_addr=4096",
		err.Hint(),
	)
	assert.ErrorIs(t, err, &sys.MinAddrError{})
}
