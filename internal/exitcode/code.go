// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

// Exit codes of the loader itself. Once the binary runs, it decides.
const (
	Success = 0
	Failure = 1
	// Unreachable is used if the loaded binary returns to the loader.
	Unreachable = 2
)
