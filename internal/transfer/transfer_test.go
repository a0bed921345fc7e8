// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer_test

import (
	"runtime"
	"testing"

	"github.com/aibor/runaout/internal/sys"
	"github.com/aibor/runaout/internal/transfer"
	"github.com/stretchr/testify/require"
)

func TestJumpUnsupported(t *testing.T) {
	if runtime.GOARCH == string(sys.I386) {
		t.Skip("jump is implemented on this architecture")
	}

	err := transfer.Jump(0x1000, 0x1020)
	require.ErrorIs(t, err, sys.ErrArchNotSupported)
}
