package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/consolidate"
	"github.com/guarzo/gamematch/internal/ingest"
	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/report"
)

func (a *App) consolidateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "consolidate FILE...",
		Short:   "Merge spreadsheet rows into one record per person",
		GroupID: "data",
		Long: `Reads CSV or JSON exports, groups rows by full name and writes one
canonical record per person. Invalid emails and dates are replaced by
"invalid email" and "invalid date"; missing files are skipped.`,
		Example: "  gamematch consolidate respostas.csv antigos.json -O consolidado.csv",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := ingest.ReadFiles(args, a.log)
			if err != nil {
				return err
			}
			records, stats := consolidate.Consolidate(rows)
			a.logStats(stats)

			if output != "" {
				if err := report.WriteFile(output, func(w io.Writer) error {
					return report.WriteRecordsCSV(w, records)
				}); err != nil {
					return err
				}
				a.log.Info().Str("file", output).Int("records", len(records)).Msg("records written")
			}
			return a.render(userTable(records), records)
		},
	}
	cmd.Flags().StringVarP(&output, "output-file", "O", "", "write the consolidated records to this CSV file")
	return cmd
}

func (a *App) logStats(stats consolidate.Stats) {
	a.log.Info().
		Int("rows", stats.InputRows).
		Int("skipped", stats.SkippedRows).
		Int("records", stats.Records).
		Int("duplicates", stats.DuplicateRows).
		Int("invalid_emails", stats.InvalidEmails).
		Int("invalid_dates", stats.InvalidDates).
		Msg("rows consolidated")
}

func (a *App) analyzeCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "analyze [FILE...]",
		Short:   "Compute all, unique and common games",
		GroupID: "data",
		Long: `Analyzes the preferred games of every stored user, or of the records
consolidated from the given files. The three tables replace the stored
analysis and are written as CSV files into --dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.Service(ctx)
			if err != nil {
				return err
			}

			var records []model.Record
			if len(args) > 0 {
				rows, err := ingest.ReadFiles(args, a.log)
				if err != nil {
					return err
				}
				var stats consolidate.Stats
				records, stats = consolidate.Consolidate(rows)
				a.logStats(stats)
			}

			rep, err := svc.Analyze(ctx, records)
			if err != nil {
				return err
			}
			if dir != "" {
				if err := report.WriteAnalysis(dir, rep); err != nil {
					return err
				}
			}

			if a.format == "json" {
				return a.render(tableData{}, rep)
			}
			fmt.Fprintf(a.out, "%d games, %d listed by one person, %d shared\n", len(rep.All), len(rep.Unique), len(rep.Common))
			return renderTable(a.out, countTable(rep.Common))
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for all_games.csv, unique_games.csv and common_games.csv (empty to skip)")
	return cmd
}

// userFlags binds the editable user fields.
func userFlags(cmd *cobra.Command, row *model.Row) {
	f := cmd.Flags()
	f.StringVar(&row.FullName, "name", "", "full name")
	f.StringVar(&row.Email, "email", "", "email address")
	f.StringVar(&row.BirthDate, "birth-date", "", "birth date (YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY)")
	f.StringVar(&row.City, "city", "", "city")
	f.StringVar(&row.State, "state", "", "state")
	f.StringVar(&row.Consoles, "consoles", "", "consoles separated by |")
	f.StringVar(&row.PreferredGames, "games", "", "preferred games separated by |")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.Validation, "parse_id", "invalid user id %q", s)
	}
	return id, nil
}

func (a *App) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage registered users",
		GroupID: "data",
	}
	cmd.AddCommand(
		a.usersAddCommand(),
		a.usersEditCommand(),
		a.usersDeleteCommand(),
		a.usersListCommand(),
		a.usersShowCommand(),
		a.usersImportCommand(),
		a.usersExportCommand(),
		a.usersPricesCommand(),
	)
	return cmd
}

func (a *App) usersAddCommand() *cobra.Command {
	var row model.Row
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a user",
		Example: `  gamematch users add --name "Ana Souza" --email ana@x.com --birth-date 15/03/1990 \
    --city "São Paulo" --state SP --consoles "PS5|Nintendo Switch" --games "Zelda|Mario"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := svc.Register(cmd.Context(), row)
			if err != nil {
				return err
			}
			return a.render(userTable([]model.Record{rec}), rec)
		},
	}
	userFlags(cmd, &row)
	return cmd
}

func (a *App) usersEditCommand() *cobra.Command {
	var row model.Row
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a user; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := svc.Update(cmd.Context(), id, row)
			if err != nil {
				return err
			}
			return a.render(userTable([]model.Record{rec}), rec)
		},
	}
	userFlags(cmd, &row)
	return cmd
}

func (a *App) usersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
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
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "user %d deleted\n", id)
			return err
		},
	}
}

func (a *App) usersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			users, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(userTable(users), users)
		},
	}
}

func (a *App) usersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(userTable([]model.Record{rec}), rec)
		},
	}
}

func (a *App) usersImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Consolidate files and register people not yet stored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := ingest.ReadFiles(args, a.log)
			if err != nil {
				return err
			}
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}
			a.logStats(res.Stats)
			for _, name := range res.Existing {
				a.log.Info().Str("name", name).Msg("already registered, skipped")
			}
			return a.render(userTable(res.Imported), res)
		},
	}
}

func (a *App) usersExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored user to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			users, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := report.WriteFile(output, func(w io.Writer) error {
				return report.WriteRecordsCSV(w, users)
			}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%d users written to %s\n", len(users), output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output-file", "O", "users.csv", "destination CSV file")
	return cmd
}

func (a *App) usersPricesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prices ID",
		Short: "Find the cheapest listing of each game a user prefers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.Service(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			bar := a.progressFor("Pricing "+rec.FullName+"'s games", len(rec.PreferredGames))
			bar.Start()
			prices, err := svc.FavouritePrices(cmd.Context(), id, bar.Func())
			if err != nil {
				bar.Fail(err)
				return err
			}
			bar.Finish()
			return a.render(priceTable(prices), prices)
		},
	}
}
