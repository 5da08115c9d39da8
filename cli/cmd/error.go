package cmd

import "github.com/ardnew/jsviz/pkg"

// Sentinel errors of the subcommands.
var (
	ErrWriteConfig = pkg.MakeErrorf("write configuration file")
	ErrFileExists  = pkg.MakeErrorf("file exists (use --force to overwrite)")
	ErrHalted      = pkg.MakeErrorf("halted")
)
