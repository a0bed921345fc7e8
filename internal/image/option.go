// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package image

import "github.com/aibor/runaout/internal/sys"

type config struct {
	pageSize    int
	prober      sys.MinAddrProber
	loadAddr    uintptr
	hasLoadAddr bool
}

// Option configures [Map].
type Option func(*config)

// WithPageSize sets the page size used for alignment. Default is the system
// page size.
func WithPageSize(size int) Option {
	return func(c *config) {
		c.pageSize = size
	}
}

// WithMinAddrProber sets the prober that is queried for the lowest mappable
// address if the image can not be mapped. Without a prober, the mapping error
// is returned as is.
func WithMinAddrProber(prober sys.MinAddrProber) Option {
	return func(c *config) {
		c.prober = prober
	}
}

// WithLoadAddr maps the image at the given page aligned address instead of the
// one the format mandates. The entry address is moved along. It exists for
// tests, which can not map images at the low fixed addresses.
func WithLoadAddr(addr uintptr) Option {
	return func(c *config) {
		c.loadAddr = addr
		c.hasLoadAddr = true
	}
}
