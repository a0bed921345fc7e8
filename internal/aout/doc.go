// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package aout reads and validates the header of ia32 a.out executables.
//
// Only fully linked, stripped images in the demand paged formats QMAGIC and
// ZMAGIC are accepted. Images with symbol tables or relocation entries are
// rejected, since nothing in this module resolves symbols or applies
// relocations.
package aout
