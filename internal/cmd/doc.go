// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for runaout. It handles flag
// parsing, error handling, and output handling, and drives the loader from
// reading the header to the jump into the loaded program.
package cmd
