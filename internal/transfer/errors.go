// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import "errors"

// ErrReturned is returned if control came back after the jump into the loaded
// program. This must not happen.
var ErrReturned = errors.New("control returned from loaded program")
