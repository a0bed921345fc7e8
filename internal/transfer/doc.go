// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer hands the control of the current thread over to a loaded
// program. This is a one way street: the Go code calling [Jump] never
// continues.
package transfer
