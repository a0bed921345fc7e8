// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// MinAddrSetting is the sysctl name of the lowest mappable address.
const MinAddrSetting = "vm.mmap_min_addr"

const minAddrFile = "proc/sys/vm/mmap_min_addr"

// MinAddrProber reports the lowest address user space is allowed to map.
type MinAddrProber interface {
	MinMapAddr() (uint64, error)
}

// ProcMinAddr reads the lowest mappable address from procfs.
type ProcMinAddr struct {
	// FS is the root file system. The setting is read from
	// proc/sys/vm/mmap_min_addr in it.
	FS fs.FS
}

// NewProcMinAddr returns a [ProcMinAddr] for the real root file system.
func NewProcMinAddr() *ProcMinAddr {
	return &ProcMinAddr{FS: os.DirFS("/")}
}

func (p *ProcMinAddr) MinMapAddr() (uint64, error) {
	content, err := fs.ReadFile(p.FS, minAddrFile)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", MinAddrSetting, err)
	}

	return parseMinAddr(content)
}

// parseMinAddr parses the setting like strtoul with base 0 does, so decimal,
// hex and octal values are accepted.
func parseMinAddr(content []byte) (uint64, error) {
	value := strings.TrimSpace(string(content))

	addr, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidSetting, MinAddrSetting, value)
	}

	return addr, nil
}

// CheckMinAddr returns a [MinAddrError] if addr is below the lowest address
// the prober reports. It returns nil if addr is allowed, if prober is nil or
// if the setting can not be read.
func CheckMinAddr(prober MinAddrProber, addr uintptr) error {
	if prober == nil {
		return nil
	}

	minAddr, err := prober.MinMapAddr()
	if err != nil {
		slog.Debug("Skipping minimum map address check",
			slog.Any("error", err))

		return nil
	}

	if minAddr <= uint64(addr) {
		return nil
	}

	return &MinAddrError{
		Current:  minAddr,
		Required: addr,
	}
}
