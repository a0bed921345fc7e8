// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Values of the seccomp kernel interface, see linux/seccomp.h and
// linux/audit.h.
const (
	seccompSetModeFilter     = 1
	seccompFlagNewListener   = 1 << 3
	seccompRetAllow          = 0x7fff0000
	seccompRetUserNotif      = 0x7fc00000
	seccompUserNotifContinue = 1
	seccompIoctlNotifRecv    = 0xc0502100
	seccompIoctlNotifSend    = 0xc0182101
	seccompDataOffsetNr      = 0
	seccompDataOffsetArch    = 4
	auditArchI386            = 0x40000003
	exitStatusMask           = 0xff
)

// seccompNotif is struct seccomp_notif.
type seccompNotif struct {
	ID    uint64
	Pid   uint32
	Flags uint32
	Nr    int32
	Arch  uint32
	IP    uint64
	Args  [6]uint64
}

// seccompNotifResp is struct seccomp_notif_resp.
type seccompNotifResp struct {
	ID    uint64
	Val   int64
	Error int32
	Flags uint32
}

// exitFilter notifies the listener about the exit system call and allows all
// other system calls.
func exitFilter() []unix.SockFilter {
	return []unix.SockFilter{
		{Code: unix.BPF_LD | unix.BPF_W | unix.BPF_ABS, K: seccompDataOffsetArch},
		{Code: unix.BPF_JMP | unix.BPF_JEQ | unix.BPF_K, Jf: 3, K: auditArchI386},
		{Code: unix.BPF_LD | unix.BPF_W | unix.BPF_ABS, K: seccompDataOffsetNr},
		{Code: unix.BPF_JMP | unix.BPF_JEQ | unix.BPF_K, Jf: 1, K: unix.SYS_EXIT},
		{Code: unix.BPF_RET | unix.BPF_K, K: seccompRetUserNotif},
		{Code: unix.BPF_RET | unix.BPF_K, K: seccompRetAllow},
	}
}

// forwardExit makes the exit system call of the calling thread with the given
// id exit the whole process with the same status.
//
// The filter is installed without TSYNC, so it applies to the calling thread
// and to threads and processes created by it only. Exits of the latter are
// let through.
func forwardExit(tid int) error {
	fd, err := installExitFilter()
	if err != nil {
		return err
	}

	go receiveExit(fd, tid)

	return nil
}

func installExitFilter() (int, error) {
	err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0)
	if err != nil {
		return -1, fmt.Errorf("set no new privs: %w", err)
	}

	filter := exitFilter()
	prog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}

	fd, _, errno := unix.Syscall(
		unix.SYS_SECCOMP,
		seccompSetModeFilter,
		seccompFlagNewListener,
		uintptr(unsafe.Pointer(&prog)),
	)
	runtime.KeepAlive(filter)

	if errno != 0 {
		return -1, fmt.Errorf("seccomp: %w", errno)
	}

	return int(fd), nil
}

// receiveExit waits for exit notifications on the listener fd. It keeps its
// thread and P while waiting, as the scheduler may not get the P back once
// the loaded program runs.
func receiveExit(fd int, tid int) {
	runtime.LockOSThread()

	_ = blockSignal(unix.SIGURG)

	for {
		var notif seccompNotif

		//nolint:gosec
		_, _, errno := unix.RawSyscall(
			unix.SYS_IOCTL,
			uintptr(fd),
			seccompIoctlNotifRecv,
			uintptr(unsafe.Pointer(&notif)),
		)

		switch errno {
		case 0:
		case unix.EINTR, unix.ENOENT:
			continue
		default:
			return
		}

		if notif.Pid == uint32(tid) {
			unix.Exit(int(notif.Args[0] & exitStatusMask))
		}

		resp := seccompNotifResp{
			ID:    notif.ID,
			Flags: seccompUserNotifContinue,
		}

		//nolint:gosec
		_, _, _ = unix.RawSyscall(
			unix.SYS_IOCTL,
			uintptr(fd),
			seccompIoctlNotifSend,
			uintptr(unsafe.Pointer(&resp)),
		)
	}
}
