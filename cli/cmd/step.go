package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/jsviz/cli/cmd/step"
	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/log"
	"github.com/ardnew/jsviz/pkg"
	"github.com/ardnew/jsviz/trace"
)

// Step runs a program one statement at a time in an interactive terminal
// view of the source, the environment frames and the console.
type Step struct {
	Source string `arg:"" default:"-" help:"Program source file or '-' for stdin" name:"source"`

	HTML     string `help:"Seed the document body from an HTML file" name:"html" type:"existingfile"`
	Sanitize bool   `help:"Sanitize the seed HTML before loading it"`

	Break    []int  `help:"Set a breakpoint at line N (repeatable)" placeholder:"N" short:"b"`
	When     string `help:"Break where the expression holds"        placeholder:"EXPR"`
	MaxDepth int    `default:"512" help:"Maximum call depth"`
	Seed     uint64 `help:"Seed for Math.random (0 picks one at random)"`
}

// Run executes the step command.
func (s *Step) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, s.Source)
	if err != nil {
		return err
	}

	html, err := readHTML(ctx, s.HTML, s.Sanitize)
	if err != nil {
		return err
	}

	cfg := step.Config{
		Source:      src,
		HTML:        html,
		Breakpoints: s.Break,
		Options:     s.options(),
	}

	if s.Source != stdinSource {
		cfg.Path = s.Source
	}

	if s.When != "" {
		cond, err := trace.Compile(s.When)
		if err != nil {
			return pkg.ErrCondition.Wrap(err)
		}

		cfg.When = cond
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.DebugContext(ctx, "step",
		slog.String("source", s.Source),
		slog.Any("breakpoints", s.Break),
		slog.String("when", s.When),
	)

	if err := step.Run(ctx, cfg, cacheDir, log.Default()); err != nil {
		var perr *lang.ParseError
		if errors.As(err, &perr) {
			_, stderr := streams(ctx)

			return report(ctx, stderr, src, err)
		}

		return err
	}

	return nil
}

func (s *Step) options() []lang.Option {
	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxCallDepth(s.MaxDepth),
	}

	if s.Seed != 0 {
		opts = append(opts, lang.WithRandSeed(s.Seed))
	}

	return opts
}
