package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/config"
	"github.com/obegron/ipscope/internal/errors"
)

// Version information
var version = "0.1.0"

// CLI defines the command-line interface
type CLI struct {
	Config string `help:"Path to the YAML config file (default ~/.ipscope.yaml)." type:"path" placeholder:"FILE"`
	Debug  bool   `help:"Enable debug logging."`

	Dashboard DashboardCmd `cmd:"" default:"withargs" help:"Open the interactive threat intelligence dashboard."`
	Lookup    LookupCmd    `cmd:"" help:"Analyze one IP and print the report."`
	View      ViewCmd      `cmd:"" help:"Browse a saved analysis or any JSON/YAML document."`
	Serve     ServeCmd     `cmd:"" help:"Serve the analysis and export HTTP API."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Globals is handed to every command's Run.
type Globals struct {
	Config config.Config
	Debug  bool
}

// logger builds the root logger; tui routes it away from the terminal.
func (g *Globals) logger(tui bool) (zerolog.Logger, func(), error) {
	cfg := g.Config
	if g.Debug {
		cfg.Log.Level = "debug"
	}
	logger, closer, err := cfg.NewLogger(tui)
	if err != nil {
		return logger, func() {}, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("ipscope"),
		kong.Description("IP threat intelligence from Criminal IP, in the terminal."),
		kong.UsageOnError(),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		printError(errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := ctx.Run(&Globals{Config: cfg, Debug: cli.Debug}); err != nil {
		printError(errors.UserFriendlyError(err))
		os.Exit(1)
	}
}
