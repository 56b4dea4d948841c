package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guarzo/gamematch/internal/gamelist"
	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/report"
	"github.com/guarzo/gamematch/internal/scheduler"
)

func (a *App) recommendCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "recommend ID",
		Short:   "Suggest games other users like",
		GroupID: "data",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			games, err := svc.Recommend(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			if len(games) == 0 && a.format != "json" {
				_, err := fmt.Fprintln(a.out, "no recommendations yet")
				return err
			}
			return a.render(titleTable("Recommended", games), games)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum suggestions (default recommend.limit)")
	return cmd
}

func (a *App) searchCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "search GAME...",
		Short:   "Find the cheapest listing of a game",
		GroupID: "market",
		Example: "  gamematch search god of war\n  gamematch search --all zelda",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			best, hits, err := svc.SearchPrice(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if a.format == "json" {
				out := struct {
					Best     model.BestPrice    `json:"best"`
					Listings []model.CatalogHit `json:"listings,omitempty"`
				}{Best: best}
				if all {
					out.Listings = hits
				}
				return a.render(tableData{}, out)
			}

			if err := renderTable(a.out, priceTable([]model.BestPrice{best})); err != nil {
				return err
			}
			if all && len(hits) > 0 {
				return renderTable(a.out, hitTable(hits))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list every matching listing")
	return cmd
}

func (a *App) pricesCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "prices",
		Short:   "Refresh the cheapest price of every analyzed game",
		GroupID: "market",
		Long: `Looks up every game of the stored analysis (running it first when empty),
replaces the stored game_prices table and prints the cheapest listing of each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			bar := a.progressFor("Pricing games", 0)
			bar.Start()
			prices, err := svc.RefreshPrices(ctx, bar.Func())
			if err != nil {
				bar.Fail(err)
				return err
			}
			bar.Finish()

			if output != "" {
				if err := report.WriteFile(output, func(w io.Writer) error {
					return report.WritePricesCSV(w, prices)
				}); err != nil {
					return err
				}
			}
			return a.render(priceTable(prices), prices)
		},
	}
	cmd.Flags().StringVarP(&output, "output-file", "O", "", "also write the prices to this CSV file")
	return cmd
}

func (a *App) gamelistsCommand() *cobra.Command {
	var consoles []string
	var dir string
	cmd := &cobra.Command{
		Use:     "gamelists",
		Short:   "Download console game lists from Wikipedia",
		GroupID: "market",
		Long: `Fetches the "Lista de jogos para <console>" pages, merges their game
tables and writes <console>.csv and <console>.json per console.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.GameLists
			if len(consoles) == 0 {
				consoles = cfg.Consoles
			}
			if dir == "" {
				dir = cfg.OutputDir
			}

			c, err := a.Cache()
			if err != nil {
				return err
			}
			scraper := gamelist.NewScraper(gamelist.Config{
				BaseURL:  cfg.BaseURL,
				Delay:    cfg.Delay,
				Timeout:  cfg.Timeout,
				CacheTTL: a.cfg.Cache.TTL,
				Workers:  cfg.Workers,
			}, c, a.log)

			lists := scraper.FetchAll(cmd.Context(), consoles)
			t := tableData{Headers: []string{"Console", "Games", "File"}, RightAligned: map[int]bool{1: true}}
			for _, l := range lists {
				base := filepath.Join(dir, l.Console)
				if err := report.WriteFile(base+".csv", func(w io.Writer) error {
					return report.WriteTableCSV(w, l.Table)
				}); err != nil {
					return err
				}
				if err := report.WriteFile(base+".json", func(w io.Writer) error {
					return report.WriteTableJSON(w, l.Table)
				}); err != nil {
					return err
				}
				t.Rows = append(t.Rows, []string{l.Console, fmt.Sprint(len(l.Table.Rows)), base + ".csv"})
			}
			if len(lists) == 0 {
				return fmt.Errorf("no game list could be fetched")
			}
			return a.render(t, lists)
		},
	}
	cmd.Flags().StringSliceVar(&consoles, "console", nil, "console page suffix, e.g. PlayStation_5 (default gamelists.consoles)")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default gamelists.output_dir)")
	return cmd
}

func (a *App) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Refresh prices on the schedule.prices cron spec until interrupted",
		GroupID: "market",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			s := scheduler.New(a.log)
			refresh := func(ctx context.Context) error {
				_, err := svc.RefreshPrices(ctx, nil)
				return err
			}
			if err := s.Add("prices", a.cfg.Schedule.Prices, refresh); err != nil {
				return err
			}

			if a.cfg.Schedule.RunOnStart {
				if err := s.RunNow(ctx, "prices"); err != nil {
					a.log.Error().Err(err).Msg("initial price refresh failed")
				}
			}
			return s.Run(ctx)
		},
	}
}
