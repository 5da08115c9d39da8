package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/ardnew/jsviz/lang"
)

// Tokens lists the tokens of a program, trivia included.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Program source file or '-' for stdin" name:"source"`

	Trivia bool `default:"true" help:"Include whitespace and comments" negatable:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	stdout, _ := streams(ctx)

	src, err := readSource(ctx, t.Source)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tLINE\tCOL\tKIND\tTEXT")

	for _, tok := range lang.Tokenize(src) {
		if tok.Trivia() && !t.Trivia {
			continue
		}

		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n",
			tok.ID, tok.Line, tok.Col, tok.Kind, strconv.Quote(tok.Text))
	}

	return w.Flush()
}
