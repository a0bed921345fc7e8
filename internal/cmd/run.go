// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/runaout/internal/aout"
	"github.com/aibor/runaout/internal/exitcode"
	"github.com/aibor/runaout/internal/image"
	"github.com/aibor/runaout/internal/stack"
	"github.com/aibor/runaout/internal/sys"
	"github.com/aibor/runaout/internal/transfer"
)

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func parseFlags(args []string, cfg IO) (*flags, error) {
	flags := newFlags(cfg.Stderr)

	err := flags.ParseArgs(args, EnvArgs())
	if err != nil {
		return nil, err
	}

	return flags, nil
}

func openImageFile(path string) (*aout.File, error) {
	file, err := aout.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("Validated header",
		slog.String("path", path),
		slog.String("format", file.Format().Name),
		slog.Any("header", file.Header()))

	return file, nil
}

func printLayout(w io.Writer, file *aout.File) {
	hdr := file.Header()
	format := file.Format()
	bss := format.LoadAddr + uintptr(hdr.SegmentsSize())

	fmt.Fprintf(w, "format: %s (0x%08x)\n", format.Name, format.Magic)
	fmt.Fprintf(w, "load:   %#x from file offset %#x\n", format.LoadAddr, format.TextOffset)
	fmt.Fprintf(w, "text:   %#x %d bytes\n", format.LoadAddr, hdr.Text)
	fmt.Fprintf(w, "data:   %#x %d bytes\n", format.LoadAddr+uintptr(hdr.Text), hdr.Data)
	fmt.Fprintf(w, "bss:    %#x %d bytes\n", bss, hdr.BSS)
	fmt.Fprintf(w, "entry:  %#x\n", hdr.Entry)
}

func loadImage(file *aout.File) (*image.Image, error) {
	img, err := image.Map(file, image.WithMinAddrProber(sys.NewProcMinAddr()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name(), err)
	}

	return img, nil
}

func buildStack(flags *flags) (stack.Frame, error) {
	size, err := stack.SizeFromLimit()
	if err != nil {
		return stack.Frame{}, fmt.Errorf("stack size: %w", err)
	}

	stk, err := stack.New(size, sys.PageSize())
	if err != nil {
		return stack.Frame{}, err //nolint:wrapcheck
	}

	argv, envp, err := stack.OwnVectors(
		os.DirFS("/"),
		flags.args,
		os.Environ(),
		flags.binaryIdx,
	)
	if err != nil {
		return stack.Frame{}, fmt.Errorf("vectors: %w", err)
	}

	frame, err := stk.Build(argv, envp)
	if err != nil {
		return stack.Frame{}, fmt.Errorf("stack: %w", err)
	}

	return frame, nil
}

func run(flags *flags, cfg IO) error {
	if !flags.check {
		err := sys.RequireImageWordSize()
		if err != nil {
			return err //nolint:wrapcheck
		}
	}

	file, err := openImageFile(flags.Binary())
	if err != nil {
		return err
	}

	if flags.check {
		defer file.Close()

		printLayout(cfg.Stdout, file)

		return nil
	}

	img, err := loadImage(file)

	// The image is a copy, the file is not needed anymore.
	_ = file.Close()

	if err != nil {
		return err
	}

	frame, err := buildStack(flags)
	if err != nil {
		return err
	}

	err = transfer.Jump(frame.SP, img.Entry)
	if errors.Is(err, transfer.ErrReturned) {
		return fmt.Errorf("%w: %w", exitcode.Error(exitcode.Unreachable), err)
	}

	return fmt.Errorf("transfer: %w", err)
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return exitcode.Success
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitcode.Failure
}

func handleRunError(err error) int {
	if err == nil {
		return exitcode.Success
	}

	slog.Error(err.Error())

	var minAddrErr *sys.MinAddrError
	if errors.As(err, &minAddrErr) {
		slog.Warn(minAddrErr.Hint())
	}

	exitCode, isExitErr := exitcode.From(err)
	if !isExitErr {
		exitCode = exitcode.Failure
	}

	return exitCode
}

// Run is the main entry point for the CLI command. It returns only if the
// binary is not run. The returned value is the exit code.
func Run(args []string, cfg IO) int {
	setupLogging(cfg.Stderr, EnvDebug())

	flags, err := parseFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	if flags.debug {
		setupLogging(cfg.Stderr, true)
	}

	err = run(flags, cfg)

	return handleRunError(err)
}
