// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sys wraps the platform specific parts the loader needs: word size
// checks, page arithmetic, memory mappings and probing of kernel settings
// that restrict them.
package sys
