package main

import (
	"fmt"
	"log/slog"
	"lox/internal/log"
	"lox/internal/repl"
	"lox/internal/runner"
	"lox/internal/util"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"
)

var (
	// Version, BuildDate and Commit are set at link time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

const historyFile = ".lox_history"

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML or YAML configuration file",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: " + strings.Join(log.Levels, ", "),
	}
	logFileFlag = cli.StringFlag{
		Name:  "log-file",
		Usage: "Log file path (if not set, logs to stderr)",
	}
	debugASTFlag = cli.StringFlag{
		Name:  "debug-ast",
		Usage: "Render the AST as 'text' or 'json' before running",
	}
	maxDepthFlag = cli.IntFlag{
		Name:  "max-depth",
		Usage: "Maximum number of nested function calls",
	}
	historyFlag = cli.StringFlag{
		Name:  "history",
		Usage: "Interactive prompt history file (default ~/" + historyFile + ")",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured error output",
	}
	dumpConfigFlag = cli.BoolFlag{
		Name:  "dump-config",
		Usage: "Print the effective configuration as TOML and exit",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "lox"
	app.Usage = "run Lox programs"
	app.UsageText = "lox [options] [script]"
	app.Version = Version
	app.Flags = []cli.Flag{
		configFlag,
		logLevelFlag,
		logFileFlag,
		debugASTFlag,
		maxDepthFlag,
		historyFlag,
		noColorFlag,
		dumpConfigFlag,
	}
	app.Action = run

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Usage: "+ctx.App.UsageText)
		return cli.NewExitError("", runner.ExitUsage)
	}

	config, err := makeConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), runner.ExitUsage)
	}

	if ctx.Bool(dumpConfigFlag.Name) {
		return toml.NewEncoder(os.Stdout).Encode(config)
	}

	closer, err := log.Configure(config.LogLevel, config.LogFile)
	if err != nil {
		return cli.NewExitError(err.Error(), runner.ExitIOErr)
	}
	defer closer.Close()

	if !config.Color {
		color.NoColor = true
	}

	r := runner.New(config, os.Stdout)
	defer r.Close()

	if ctx.NArg() == 0 {
		slog.Info("starting interactive prompt", slog.String("version", Version))
		if err := repl.Start(r, config, os.Stdin, os.Stdout); err != nil {
			return cli.NewExitError(err.Error(), runner.ExitIOErr)
		}
		return nil
	}

	path := ctx.Args().First()
	src, err := r.RunFile(path)
	if err != nil {
		slog.Error("program failed", slog.String("path", path), slog.Any("error", err))
		color.New(color.FgRed).Fprintln(os.Stderr, runner.FormatError(src, err))
		return cli.NewExitError("", runner.ExitCode(err))
	}
	return nil
}

// makeConfig starts from the config file, or the defaults when there is none,
// and applies any flags given on the command line on top.
func makeConfig(ctx *cli.Context) (util.Configuration, error) {
	config := util.DefaultConfiguration()
	if file := ctx.String(configFlag.Name); file != "" {
		var err error
		if config, err = util.LoadConfiguration(file); err != nil {
			return config, err
		}
	}

	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	if ctx.IsSet(logLevelFlag.Name) {
		config.LogLevel = ctx.String(logLevelFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		config.LogFile = ctx.String(logFileFlag.Name)
	}
	if ctx.IsSet(debugASTFlag.Name) {
		config.DebugAST = ctx.String(debugASTFlag.Name)
	}
	if ctx.IsSet(maxDepthFlag.Name) {
		config.MaxCallDepth = ctx.Int(maxDepthFlag.Name)
	}
	if ctx.IsSet(historyFlag.Name) {
		config.HistoryFile = ctx.String(historyFlag.Name)
	}
	if ctx.Bool(noColorFlag.Name) {
		config.Color = false
	}

	if config.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			config.HistoryFile = filepath.Join(home, historyFile)
		}
	}

	return config, config.Validate()
}
