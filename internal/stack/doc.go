// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stack allocates the initial stack of a loaded program and lays out
// its startup frame.
//
// The frame follows the a.out startup convention of ia32 Linux. The stack
// pointer handed to the program points at argc, followed by a pointer to the
// argv array and a pointer to the envp array:
//
//	sp+0   argc
//	sp+1w  argv  -> argv[0] ... argv[argc-1] NULL
//	sp+2w  envp  -> envp[0] ... envp[envc-1] NULL
//	top-1w 0
//
// Both arrays are placed right above the three words. The strings they point
// to are not copied, if the original storage of the process can be found.
package stack
