package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/pkg"
)

// AST prints the syntax tree of a program.
type AST struct {
	Source string `arg:"" default:"-" help:"Program source file or '-' for stdin" name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	stdout, stderr := streams(ctx)

	src, err := readSource(ctx, a.Source)
	if err != nil {
		return err
	}

	prog, err := lang.ParseString(src)
	if err != nil {
		if perr, ok := err.(*lang.ParseError); ok {
			fmt.Fprintln(stderr, perr.Error())
			fmt.Fprint(stderr, perr.Snippet())
		}

		return pkg.ErrParse.Wrap(err)
	}

	return prog.Print(stdout)
}
