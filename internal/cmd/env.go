// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"strings"

	"github.com/xyproto/env/v2"
)

const (
	envArgs  = "RUNAOUT_ARGS"
	envDebug = "RUNAOUT_DEBUG"
)

// EnvArgs returns runaout flags from the environment.
func EnvArgs() []string {
	// The env package caches the environment on first use. Reload, so the
	// current environment is used.
	env.Load()

	return strings.Fields(env.Str(envArgs))
}

// EnvDebug returns true if debug output is enabled in the environment.
func EnvDebug() bool {
	env.Load()

	return env.Bool(envDebug)
}
