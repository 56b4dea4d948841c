package service

import (
	"context"

	"github.com/guarzo/gamematch/internal/analysis"
	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/index"
	"github.com/guarzo/gamematch/internal/marketplace"
	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/validate"
)

// Recommend suggests up to limit indexed games user id has not listed.
// A zero limit uses the configured default.
func (s *Service) Recommend(ctx context.Context, id int64, limit int) ([]string, error) {
	const op = "service.recommend"

	if limit < 0 {
		return nil, apperr.Newf(apperr.Validation, op, "limit must not be negative, got %d", limit)
	}
	if limit == 0 {
		limit = s.limit
	}

	rec, err := s.store.Find(ctx, id)
	if apperr.KindOf(err) == apperr.NotFound {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Recommendation, op, err)
	}

	s.mu.Lock()
	out := index.Recommend(s.index, rec, limit)
	s.mu.Unlock()
	return out, nil
}

// SearchPrice finds the cheapest matching listing for a free-text game name.
func (s *Service) SearchPrice(ctx context.Context, name string) (model.BestPrice, []model.CatalogHit, error) {
	const op = "service.search"

	query, err := validate.RequiredText("game name", name)
	if err != nil {
		return model.BestPrice{}, nil, err
	}
	if s.prices == nil {
		return model.BestPrice{Query: query}, nil, apperr.New(apperr.Search, op, "marketplace is not configured")
	}
	return s.prices.LowestPrice(ctx, query)
}

// FavouritePrices looks up the cheapest listing for each game user id
// prefers. Titles whose lookup fails are logged and left out.
func (s *Service) FavouritePrices(ctx context.Context, id int64, progress marketplace.Progress) ([]model.BestPrice, error) {
	const op = "service.favourite_prices"

	if s.prices == nil {
		return nil, apperr.New(apperr.Search, op, "marketplace is not configured")
	}
	rec, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	_, prices := s.prices.BatchPrices(ctx, rec.PreferredGames, progress)
	return prices, nil
}

// Analyze computes the game-set report over records, or over every stored
// user when records is nil, and replaces the analysis tables.
func (s *Service) Analyze(ctx context.Context, records []model.Record) (analysis.Report, error) {
	if records == nil {
		var err error
		if records, err = s.store.List(ctx); err != nil {
			return analysis.Report{}, err
		}
	}

	rep := analysis.Analyze(records)
	if err := s.store.ReplaceAnalysis(ctx, rep); err != nil {
		return rep, err
	}

	s.log.Info().
		Int("records", len(records)).
		Int("all", len(rep.All)).
		Int("unique", len(rep.Unique)).
		Int("common", len(rep.Common)).
		Msg("analysis stored")
	return rep, nil
}

// RefreshPrices prices every game in the all_games table, running Analyze
// first when the table is empty, and replaces game_prices with the matched
// listings.
func (s *Service) RefreshPrices(ctx context.Context, progress marketplace.Progress) ([]model.BestPrice, error) {
	const op = "service.refresh_prices"

	if s.prices == nil {
		return nil, apperr.New(apperr.Search, op, "marketplace is not configured")
	}

	titles, err := s.store.AllGames(ctx)
	if err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		rep, err := s.Analyze(ctx, nil)
		if err != nil {
			return nil, err
		}
		titles = rep.All
	}

	hits, prices := s.prices.BatchPrices(ctx, titles, progress)
	if err := s.store.ReplacePrices(ctx, hits); err != nil {
		return prices, err
	}

	found := 0
	for _, p := range prices {
		if p.Found {
			found++
		}
	}
	s.log.Info().Int("titles", len(titles)).Int("priced", found).Int("listings", len(hits)).Msg("prices refreshed")
	return prices, nil
}
