package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/log"
	"github.com/ardnew/jsviz/pkg"
	"github.com/ardnew/jsviz/trace"
)

// Run executes a program to completion, printing its console output.
type Run struct {
	Source string `arg:"" default:"-" help:"Program source file or '-' for stdin" name:"source"`

	HTML     string `help:"Seed the document body from an HTML file" name:"html" type:"existingfile"`
	Sanitize bool   `help:"Sanitize the seed HTML before loading it"`

	Trace     string `default:"none" enum:"none,json,yaml" help:"Export the recorded event trace (${enum})"`
	TraceFile string `default:"-"                          help:"Trace output file or '-' for stdout"`
	Indent    int    `default:"2"                          help:"Indent width for the trace export"`

	HaltWhen string        `help:"Halt at the first statement where the expression holds" placeholder:"EXPR"`
	Delay    time.Duration `help:"Pause at every statement"`
	MaxDepth int           `default:"512" help:"Maximum call depth"`
	Seed     uint64        `help:"Seed for Math.random (0 picks one at random)"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := streams(ctx)

	src, err := readSource(ctx, r.Source)
	if err != nil {
		return err
	}

	html, err := readHTML(ctx, r.HTML, r.Sanitize)
	if err != nil {
		return err
	}

	opts := []trace.RecorderOption{
		trace.WithConsole(stdout),
		trace.WithDelay(r.Delay),
		trace.WithRecorderLogger(log.Default()),
	}

	if r.HaltWhen != "" {
		cond, err := trace.Compile(r.HaltWhen)
		if err != nil {
			return pkg.ErrCondition.Wrap(err)
		}

		opts = append(opts, trace.WithHaltWhen(cond))
	}

	rec := trace.NewRecorder(opts...)

	in := lang.New(r.options(rec, html)...)

	runErr := in.Run(ctx, src)

	if err := r.export(ctx, rec, stdout); err != nil {
		return err
	}

	return report(ctx, stderr, in.Source(), runErr)
}

func (r *Run) options(host lang.Host, html string) []lang.Option {
	opts := []lang.Option{
		lang.WithHost(host),
		lang.WithLogger(log.Default()),
		lang.WithHTML(html),
		lang.WithMaxCallDepth(r.MaxDepth),
	}

	if r.Seed != 0 {
		opts = append(opts, lang.WithRandSeed(r.Seed))
	}

	return opts
}

func (r *Run) export(ctx context.Context, rec *trace.Recorder, stdout io.Writer) (err error) {
	if r.Trace == "" || r.Trace == string(trace.EncodingNone) {
		return nil
	}

	w := stdout

	if r.TraceFile != "" && r.TraceFile != stdinSource {
		f, ferr := os.Create(r.TraceFile)
		if ferr != nil {
			return pkg.ErrWriteTrace.Wrap(ferr)
		}

		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = pkg.ErrWriteTrace.Wrap(cerr)
			}
		}()

		w = f
	}

	if err = rec.Export(ctx, w, trace.Encoding(r.Trace), r.Indent); err == nil {
		return nil
	}

	if r.Trace == string(trace.EncodingJSON) {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	return pkg.ErrYAMLMarshal.Wrap(err)
}

// report prints a failed run for a learner and returns the error to exit
// with.
func report(ctx context.Context, w io.Writer, source string, err error) error {
	var (
		perr *lang.ParseError
		rerr *lang.RuntimeError
	)

	switch {
	case err == nil:
		return nil

	case lang.IsHalted(err):
		fmt.Fprintln(w, "halted")
		log.DebugContext(ctx, "run halted", slog.Any("cause", errors.Unwrap(err)))

		return ErrHalted.Wrap(err)

	case errors.As(err, &perr):
		fmt.Fprintln(w, perr.Error())
		fmt.Fprint(w, perr.Snippet())

		return pkg.ErrParse.Wrap(err)

	case errors.As(err, &rerr):
		fmt.Fprint(w, rerr.Report(source))

		return pkg.ErrRuntime.Wrap(err)
	}

	return err
}
