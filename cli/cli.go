package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bexpand/cli/cmd"
	"github.com/ardnew/bexpand/pkg"
)

// CLI is the top-level command-line interface for bexpand.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source  []string         `help:"Input source file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit"                short:"V"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Tree cmd.Tree `cmd:"" help:"Print the parsed structure of patterns"`
	Repl cmd.Repl `cmd:"" help:"Expand patterns interactively"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand brace patterns"`
}

// Run executes the bexpand CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := newParser(ctx, &cli, configPath(baseConfig), cacheDir(), exit)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}

// newParser constructs the Kong parser for cli. Flag defaults are resolved
// from the YAML file at confPath when it exists.
func newParser(
	ctx context.Context,
	cli *CLI,
	confPath, cachePath string,
	exit func(code int),
) (*kong.Kong, error) {
	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: confPath,
		cmd.CacheIdentifier:  cachePath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	return kong.New(cli,
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), confPath),
		vars,
	)
}
