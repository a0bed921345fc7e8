// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Runaout loads an ia32 a.out binary into its own process and runs it.
package main

import (
	"os"

	"github.com/aibor/runaout/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args, cmd.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
