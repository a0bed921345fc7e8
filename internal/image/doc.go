// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package image maps the text, data and bss segments of an a.out file into
// the address space of the running process at the address the format
// mandates.
package image
