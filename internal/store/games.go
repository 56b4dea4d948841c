package store

import (
	"context"
	"database/sql"

	"github.com/guarzo/gamematch/internal/analysis"
	"github.com/guarzo/gamematch/internal/model"
)

// ReplaceAnalysis overwrites the all_games, unique_games and common_games
// tables with rep, keeping the report's row order.
func (s *Store) ReplaceAnalysis(ctx context.Context, rep analysis.Report) error {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"all_games", "unique_games", "common_games"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		if err := insertTitles(ctx, tx, "all_games", rep.All); err != nil {
			return err
		}
		if err := insertTitles(ctx, tx, "unique_games", rep.Unique); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO common_games (game, count) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range rep.Common {
			if _, err := stmt.ExecContext(ctx, c.Title, c.Count); err != nil {
				return err
			}
		}
		return nil
	})
	return storageErr("store.replace_analysis", err)
}

func insertTitles(ctx context.Context, tx *sql.Tx, table string, titles []string) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+table+" (game) VALUES (?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range titles {
		if _, err := stmt.ExecContext(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// AllGames reads back the all_games table in stored order.
func (s *Store) AllGames(ctx context.Context) ([]string, error) {
	return s.titles(ctx, "all_games")
}

// UniqueGames reads back the unique_games table in stored order.
func (s *Store) UniqueGames(ctx context.Context) ([]string, error) {
	return s.titles(ctx, "unique_games")
}

func (s *Store) titles(ctx context.Context, table string) ([]string, error) {
	op := "store." + table

	rows, err := s.db.QueryContext(ctx, "SELECT game FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CommonGames reads back the common_games table in stored order.
func (s *Store) CommonGames(ctx context.Context) ([]model.GameCount, error) {
	const op = "store.common_games"

	rows, err := s.db.QueryContext(ctx, "SELECT game, count FROM common_games ORDER BY rowid")
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []model.GameCount{}
	for rows.Next() {
		var c model.GameCount
		if err := rows.Scan(&c.Title, &c.Count); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// ReplacePrices overwrites game_prices with hits.
func (s *Store) ReplacePrices(ctx context.Context, hits []model.CatalogHit) error {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM game_prices"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO game_prices (query, title, price, permalink) VALUES (?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, h := range hits {
			if _, err := stmt.ExecContext(ctx, h.Query, h.Title, h.Price, h.Permalink); err != nil {
				return err
			}
		}
		return nil
	})
	return storageErr("store.replace_prices", err)
}

// Prices reads back game_prices in stored order.
func (s *Store) Prices(ctx context.Context) ([]model.CatalogHit, error) {
	const op = "store.prices"

	rows, err := s.db.QueryContext(ctx, "SELECT query, title, price, permalink FROM game_prices ORDER BY rowid")
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []model.CatalogHit{}
	for rows.Next() {
		var h model.CatalogHit
		if err := rows.Scan(&h.Query, &h.Title, &h.Price, &h.Permalink); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}
