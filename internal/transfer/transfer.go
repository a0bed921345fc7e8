// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/aibor/runaout/internal/sys"
	"golang.org/x/sys/unix"
)

// The loaded program keeps one P forever, the exit forwarder another one. The
// thread watch needs a third one.
const minProcs = 3

const watchInterval = 10 * time.Millisecond

// Jump sets the stack pointer to sp and jumps to entry.
//
// The calling goroutine is locked to its thread first, so the loaded program
// owns the thread from then on. The garbage collector is turned off, as it
// would otherwise try to stop the thread that no longer runs Go code.
//
// The other threads of the process keep running. So the thread-only exit
// system call of the loaded program is turned into an exit of the whole
// process with the same status. If the kernel can not forward it, the process
// exits with status 0 once the thread is gone. Go's preemption signal is
// blocked on the thread, as it would interrupt the program's system calls.
//
// It returns [sys.ErrArchNotSupported] without jumping on architectures
// without jump implementation. If the jump returns, [ErrReturned] is returned.
func Jump(sp, entry uintptr) error {
	if !supported {
		return sys.ErrArchNotSupported
	}

	if runtime.GOMAXPROCS(0) < minProcs {
		runtime.GOMAXPROCS(minProcs)
	}

	runtime.LockOSThread()
	debug.SetGCPercent(-1)

	tid := unix.Gettid()

	watchThread(os.DirFS("/"), tid, watchInterval, func() {
		unix.Exit(0)
	})

	if err := forwardExit(tid); err != nil {
		slog.Warn("Exit status of the exit system call is lost",
			slog.Any("error", err))
	}

	if err := blockSignal(unix.SIGURG); err != nil {
		return err
	}

	slog.Debug("Transferring control",
		slog.Int("tid", tid),
		sys.AddrAttr("sp", sp),
		sys.AddrAttr("entry", entry))

	jump(sp, entry)

	return ErrReturned
}
