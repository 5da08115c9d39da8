package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/jsviz/dom"
	"github.com/ardnew/jsviz/log"
	"github.com/ardnew/jsviz/pkg"
)

// Query prints the outer HTML of every element matching a selector.
type Query struct {
	Selector string `arg:"" help:"CSS selector"                  name:"selector"`
	HTML     string `arg:"" default:"-" help:"HTML file or '-' for stdin" name:"html"`

	Sanitize bool `help:"Sanitize the HTML before loading it"`
	Count    bool `help:"Print only the number of matches"    short:"c"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) error {
	stdout, _ := streams(ctx)

	src, err := readSource(ctx, q.HTML)
	if err != nil {
		return err
	}

	if q.Sanitize {
		src = dom.Sanitize(src)
	}

	doc := dom.NewDocument()
	if err := doc.LoadHTML(src); err != nil {
		return pkg.ErrReadSource.Wrap(err)
	}

	matches, err := doc.QuerySelectorAll(q.Selector)
	if err != nil {
		return pkg.ErrSelector.Wrap(err)
	}

	log.DebugContext(ctx, "query",
		slog.String("selector", q.Selector),
		slog.Int("matches", len(matches)),
	)

	if q.Count {
		_, err := fmt.Fprintln(stdout, len(matches))

		return err
	}

	for _, e := range matches {
		if _, err := fmt.Fprintln(stdout, e.OuterHTML()); err != nil {
			return err
		}
	}

	return nil
}
