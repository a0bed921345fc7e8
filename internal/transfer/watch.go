// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"errors"
	"io/fs"
	"strconv"
	"time"
)

// watchThread calls exit in a new goroutine once the thread with the given id
// is gone from the process's task list in fsys.
func watchThread(fsys fs.FS, tid int, interval time.Duration, exit func()) {
	path := "proc/self/task/" + strconv.Itoa(tid)

	go func() {
		for {
			time.Sleep(interval)

			_, err := fs.Stat(fsys, path)
			if errors.Is(err, fs.ErrNotExist) {
				exit()
				return
			}
		}
	}()
}
