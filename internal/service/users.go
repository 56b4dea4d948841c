package service

import (
	"context"
	"strings"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/consolidate"
	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/validate"
)

// Register validates a directly entered user and stores it. Name, city and
// state are required; email and birth date must be valid rather than being
// replaced by sentinels.
func (s *Service) Register(ctx context.Context, in model.Row) (model.Record, error) {
	rec, err := validateInput(in)
	if err != nil {
		return model.Record{}, err
	}

	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return model.Record{}, err
	}
	if err := s.indexUser(saved); err != nil {
		return saved, err
	}
	s.syncMirror(ctx, saved)

	s.log.Info().Int64("user_id", saved.ID).Str("name", saved.FullName).Msg("user registered")
	return saved, nil
}

func validateInput(in model.Row) (model.Record, error) {
	name, err := validate.RequiredText("full name", in.FullName)
	if err != nil {
		return model.Record{}, err
	}
	email, err := validate.StrictEmail(in.Email)
	if err != nil {
		return model.Record{}, err
	}
	birth, err := validate.StrictDate(in.BirthDate)
	if err != nil {
		return model.Record{}, err
	}
	city, err := validate.RequiredText("city", in.City)
	if err != nil {
		return model.Record{}, err
	}
	state, err := validate.RequiredText("state", in.State)
	if err != nil {
		return model.Record{}, err
	}

	return model.Record{
		FullName:       name,
		Email:          email,
		BirthDate:      birth,
		City:           city,
		State:          state,
		Consoles:       model.SplitList(in.Consoles),
		PreferredGames: model.SplitList(in.PreferredGames),
	}, nil
}

// Update applies the non-empty fields of changes to user id. Changed fields
// are validated like Register. Newly listed games are added to the index;
// games dropped from the record stay indexed until the next Start.
func (s *Service) Update(ctx context.Context, id int64, changes model.Row) (model.Record, error) {
	rec, err := s.store.Find(ctx, id)
	if err != nil {
		return model.Record{}, err
	}

	if strings.TrimSpace(changes.FullName) != "" {
		rec.FullName = strings.TrimSpace(changes.FullName)
	}
	if strings.TrimSpace(changes.Email) != "" {
		if rec.Email, err = validate.StrictEmail(changes.Email); err != nil {
			return model.Record{}, err
		}
	}
	if strings.TrimSpace(changes.BirthDate) != "" {
		if rec.BirthDate, err = validate.StrictDate(changes.BirthDate); err != nil {
			return model.Record{}, err
		}
	}
	if strings.TrimSpace(changes.City) != "" {
		rec.City = strings.TrimSpace(changes.City)
	}
	if strings.TrimSpace(changes.State) != "" {
		rec.State = strings.TrimSpace(changes.State)
	}
	if strings.TrimSpace(changes.Consoles) != "" {
		rec.Consoles = model.SplitList(changes.Consoles)
	}
	if strings.TrimSpace(changes.PreferredGames) != "" {
		rec.PreferredGames = model.SplitList(changes.PreferredGames)
	}

	if err := s.store.Update(ctx, rec); err != nil {
		return model.Record{}, err
	}
	if err := s.indexUser(rec); err != nil {
		return rec, err
	}
	s.syncMirror(ctx, rec)

	s.log.Info().Int64("user_id", rec.ID).Msg("user updated")
	return rec, nil
}

// Delete removes user id from the store and the mirror. The game index keeps
// the user's entries until the next Start.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.RemoveUser(ctx, id); err != nil {
			s.log.Warn().Err(err).Int64("user_id", id).Msg("graph mirror remove failed")
		}
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// Get returns user id.
func (s *Service) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.store.Find(ctx, id)
}

// List returns every stored user.
func (s *Service) List(ctx context.Context) ([]model.Record, error) {
	return s.store.List(ctx)
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Stats    consolidate.Stats
	Imported []model.Record
	// Existing names were already stored and left untouched.
	Existing []string
}

// Import consolidates rows and stores the records whose name is not yet
// registered. New users are indexed; a user that fails to index is logged
// and skipped.
func (s *Service) Import(ctx context.Context, rows []model.Row) (ImportResult, error) {
	const op = "service.import"

	records, stats := consolidate.Consolidate(rows)
	result := ImportResult{Stats: stats, Imported: []model.Record{}}

	fresh := make([]model.Record, 0, len(records))
	for _, rec := range records {
		_, err := s.store.FindByName(ctx, rec.FullName)
		switch apperr.KindOf(err) {
		case apperr.NotFound:
			fresh = append(fresh, rec)
		case apperr.Unknown:
			if err != nil {
				return result, apperr.Wrap(apperr.Import, op, err)
			}
			result.Existing = append(result.Existing, rec.FullName)
		default:
			return result, apperr.Wrap(apperr.Import, op, err)
		}
	}

	if len(fresh) == 0 {
		return result, nil
	}

	saved, err := s.store.SaveAll(ctx, fresh)
	if err != nil {
		return result, apperr.Wrap(apperr.Import, op, err)
	}

	for _, rec := range saved {
		if err := s.indexUser(rec); err != nil {
			s.log.Warn().Err(err).Str("name", rec.FullName).Msg("imported user not indexed")
			continue
		}
		s.syncMirror(ctx, rec)
	}
	result.Imported = saved

	s.log.Info().
		Int("rows", stats.InputRows).
		Int("imported", len(saved)).
		Int("existing", len(result.Existing)).
		Msg("import complete")
	return result, nil
}
