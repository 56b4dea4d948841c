package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guarzo/gamematch/internal/config"
	"github.com/guarzo/gamematch/internal/logging"
)

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "gamematch",
		Short:   "Game preference registry, recommender and price finder",
		Version: a.version,
		Long: `gamematch consolidates game-preference spreadsheets into one record per
person, keeps them in a local SQLite database, recommends games other people
like and finds the cheapest matching listing on Mercado Livre.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(
		&cobra.Group{ID: "data", Title: "Data Commands:"},
		&cobra.Group{ID: "market", Title: "Marketplace Commands:"},
	)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./gamematch.yaml or $HOME/gamematch.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output, no progress bars")
	flags.StringVarP(&a.format, "format", "o", "table", "output format: table or json")

	root.SetVersionTemplate("gamematch {{.Version}}\n")

	root.AddCommand(
		a.consolidateCommand(),
		a.analyzeCommand(),
		a.usersCommand(),
		a.recommendCommand(),
		a.searchCommand(),
		a.pricesCommand(),
		a.gamelistsCommand(),
		a.watchCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads configuration and rebuilds the logger from flags.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.New(), a.configFile)
	if err != nil {
		return err
	}

	switch {
	case a.logLevel != "":
		cfg.Log.Level = a.logLevel
	case a.verbose:
		cfg.Log.Level = "debug"
	case a.quiet:
		cfg.Log.Level = "warn"
	}

	if a.format != "table" && a.format != "json" {
		return fmt.Errorf("unknown format %q, want table or json", a.format)
	}

	a.cfg = cfg
	if cfg.Log.Output == "" || cfg.Log.Output == "stderr" {
		a.log = logging.NewWithWriter(cfg.Log, a.errOut)
	} else {
		a.log = logging.New(cfg.Log)
	}
	a.log.Debug().Str("command", cmd.CommandPath()).Str("store", cfg.Store.Path).Msg("configuration loaded")
	return nil
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.out, "gamematch %s (commit %s, built %s)\n", a.version, a.commit, a.date)
			return err
		},
	}
}
