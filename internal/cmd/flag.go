// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"slices"
)

const (
	name = "runaout"

	usageMessage = `Usage of 'runaout':
    runaout [flags...] binary [args...]

Loads the ia32 QMAGIC or ZMAGIC a.out binary into this process and runs it
with the given arguments and the current environment. The binary's own name
is passed as its first argument.

Run a binary:
	runaout ./hello world

Print the image layout without running it:
	runaout -check ./hello

All runaout flags can also be provided via environment variable RUNAOUT_ARGS:
	RUNAOUT_ARGS="-debug" runaout ./hello
`
)

type flags struct {
	flagSet *flag.FlagSet

	// args are the arguments the flags are parsed from.
	args []string
	// binaryIdx is the index of the binary path in args. The binary's
	// arguments start there.
	binaryIdx int

	version bool
	debug   bool
	check   bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{}

	flags.initFlagset(output)

	return flags
}

// ParseArgs parses the given command line. The first element is the name of
// the command. The flags from extraArgs are parsed before the command line
// flags.
func (f *flags) ParseArgs(args, extraArgs []string) error {
	if len(args) < 1 {
		return f.fail("no command name given", nil)
	}

	f.args = args

	merged := slices.Concat(extraArgs, args[1:])

	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(merged)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	// First positional argument is supposed to be the binary file.
	if len(positionalArgs) < 1 {
		return f.fail("no binary given", nil)
	}

	// Positional arguments must all come from the command line, as they are
	// passed to the binary from the original argument storage.
	if len(positionalArgs) > len(args)-1 {
		return f.fail(envArgs+" must only contain flags", nil)
	}

	f.binaryIdx = len(args) - len(positionalArgs)

	return nil
}

// Binary returns the path of the binary to load.
func (f *flags) Binary() string {
	return f.args[f.binaryIdx]
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.BoolVar(
		&f.check,
		"check",
		f.check,
		"validate the binary and print its layout instead of running it",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output (also enabled by "+envDebug+")",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
