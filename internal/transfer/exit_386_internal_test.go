// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build 386

package transfer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestSeccompStructSizes(t *testing.T) {
	assert.Equal(t, uintptr(80), unsafe.Sizeof(seccompNotif{}))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(seccompNotifResp{}))
}

// runFilter interprets the filter for the given arch and system call number.
func runFilter(t *testing.T, filter []unix.SockFilter, arch, nr uint32) uint32 {
	t.Helper()

	var acc uint32

	for pc := 0; pc < len(filter); pc++ {
		ins := filter[pc]

		switch ins.Code {
		case unix.BPF_LD | unix.BPF_W | unix.BPF_ABS:
			switch ins.K {
			case seccompDataOffsetNr:
				acc = nr
			case seccompDataOffsetArch:
				acc = arch
			default:
				t.Fatalf("load of unexpected offset %d", ins.K)
			}
		case unix.BPF_JMP | unix.BPF_JEQ | unix.BPF_K:
			if acc == ins.K {
				pc += int(ins.Jt)
			} else {
				pc += int(ins.Jf)
			}
		case unix.BPF_RET | unix.BPF_K:
			return ins.K
		default:
			t.Fatalf("unexpected instruction %#x", ins.Code)
		}
	}

	t.Fatal("filter does not return")

	return 0
}

func TestExitFilter(t *testing.T) {
	tests := []struct {
		name     string
		arch     uint32
		nr       uint32
		expected uint32
	}{
		{"exit", auditArchI386, unix.SYS_EXIT, seccompRetUserNotif},
		{"exit_group", auditArchI386, unix.SYS_EXIT_GROUP, seccompRetAllow},
		{"nanosleep", auditArchI386, unix.SYS_NANOSLEEP, seccompRetAllow},
		{"other arch", 0xc000003e, unix.SYS_EXIT, seccompRetAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, runFilter(t, exitFilter(), tt.arch, tt.nr))
		})
	}
}
