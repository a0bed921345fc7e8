// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"log/slog"
	"strconv"
)

// AddrAttr returns a log attribute with the address formatted as hex number.
func AddrAttr(key string, addr uintptr) slog.Attr {
	return slog.String(key, "0x"+strconv.FormatUint(uint64(addr), 16))
}
