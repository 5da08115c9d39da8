package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jsviz/cli/cmd"
	"github.com/ardnew/jsviz/pkg"
)

// baseConfig is the file name of the YAML configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for jsviz.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run a program to completion"`
	Step   cmd.Step   `cmd:""                    help:"Step through a program interactively"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a program"`
	AST    cmd.AST    `cmd:"" name:"ast"         help:"Print the syntax tree of a program"`
	Query  cmd.Query  `cmd:""                    help:"Evaluate a CSS selector against an HTML document"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the jsviz CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, nil, args...)
}

// run parses args and executes the selected command. Extra kong options
// are applied last, which lets tests redirect the output streams.
func run(
	ctx context.Context,
	exit func(code int),
	extra []kong.Option,
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that parse errors are already logged
	// with the requested configuration.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath("config.json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	}

	parser, err := kong.New(&cli, append(opts, extra...)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
