package store

import (
	"context"
	"database/sql"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/model"
)

const userColumns = "id, full_name, email, birth_date, city, state, consoles, preferred_games"

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (model.Record, error) {
	var (
		r        model.Record
		consoles string
		games    string
	)
	if err := sc.Scan(&r.ID, &r.FullName, &r.Email, &r.BirthDate, &r.City, &r.State, &consoles, &games); err != nil {
		return model.Record{}, err
	}
	r.Consoles = model.SplitList(consoles)
	r.PreferredGames = model.SplitList(games)
	return r, nil
}

// Save inserts rec and returns it with its assigned ID. Any ID on rec is
// ignored.
func (s *Store) Save(ctx context.Context, rec model.Record) (model.Record, error) {
	var saved model.Record
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = insertUser(ctx, tx, rec)
		return err
	})
	if err != nil {
		return model.Record{}, storageErr("store.save", err)
	}
	return saved, nil
}

// SaveAll inserts every record in one transaction. Either all are stored or
// none.
func (s *Store) SaveAll(ctx context.Context, recs []model.Record) ([]model.Record, error) {
	saved := make([]model.Record, 0, len(recs))
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		for _, rec := range recs {
			r, err := insertUser(ctx, tx, rec)
			if err != nil {
				return err
			}
			saved = append(saved, r)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("store.save_all", err)
	}
	return saved, nil
}

func insertUser(ctx context.Context, tx *sql.Tx, rec model.Record) (model.Record, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (full_name, email, birth_date, city, state, consoles, preferred_games)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.FullName, rec.Email, rec.BirthDate, rec.City, rec.State,
		model.JoinList(rec.Consoles), model.JoinList(rec.PreferredGames),
	)
	if err != nil {
		return model.Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Record{}, err
	}
	rec.ID = id
	return rec, nil
}

// Update overwrites every field of the user with rec.ID.
func (s *Store) Update(ctx context.Context, rec model.Record) error {
	const op = "store.update"

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, email = ?, birth_date = ?, city = ?, state = ?,
		 consoles = ?, preferred_games = ? WHERE id = ?`,
		rec.FullName, rec.Email, rec.BirthDate, rec.City, rec.State,
		model.JoinList(rec.Consoles), model.JoinList(rec.PreferredGames), rec.ID,
	)
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return notFound(op, rec.ID)
	}
	return nil
}

// Find returns the user with id.
func (s *Store) Find(ctx context.Context, id int64) (model.Record, error) {
	const op = "store.find"

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	rec, err := scanUser(row)
	if isNoRows(err) {
		return model.Record{}, notFound(op, id)
	}
	if err != nil {
		return model.Record{}, storageErr(op, err)
	}
	return rec, nil
}

// FindByName returns the first user stored under fullName.
func (s *Store) FindByName(ctx context.Context, fullName string) (model.Record, error) {
	const op = "store.find_by_name"

	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE full_name = ? ORDER BY id LIMIT 1", fullName)
	rec, err := scanUser(row)
	if isNoRows(err) {
		return model.Record{}, apperr.Newf(apperr.NotFound, op, "user %q not found", fullName)
	}
	if err != nil {
		return model.Record{}, storageErr(op, err)
	}
	return rec, nil
}

// Delete removes the user with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	const op = "store.delete"

	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return notFound(op, id)
	}
	return nil
}

// List returns every user in ID order.
func (s *Store) List(ctx context.Context) ([]model.Record, error) {
	const op = "store.list"

	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}
