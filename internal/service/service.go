// Package service orchestrates the user registry, the game index, set
// analysis and marketplace price lookups on top of the store.
package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/guarzo/gamematch/internal/analysis"
	"github.com/guarzo/gamematch/internal/index"
	"github.com/guarzo/gamematch/internal/marketplace"
	"github.com/guarzo/gamematch/internal/model"
)

// Repository persists canonical user records.
type Repository interface {
	Save(ctx context.Context, rec model.Record) (model.Record, error)
	SaveAll(ctx context.Context, recs []model.Record) ([]model.Record, error)
	Update(ctx context.Context, rec model.Record) error
	Find(ctx context.Context, id int64) (model.Record, error)
	FindByName(ctx context.Context, fullName string) (model.Record, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Record, error)
}

// Tables persists analysis and price tables.
type Tables interface {
	ReplaceAnalysis(ctx context.Context, rep analysis.Report) error
	AllGames(ctx context.Context) ([]string, error)
	ReplacePrices(ctx context.Context, hits []model.CatalogHit) error
}

// Store is everything the service needs from persistence.
type Store interface {
	Repository
	Tables
}

// PriceSource looks up marketplace prices.
type PriceSource interface {
	LowestPrice(ctx context.Context, query string) (model.BestPrice, []model.CatalogHit, error)
	BatchPrices(ctx context.Context, titles []string, progress marketplace.Progress) ([]model.CatalogHit, []model.BestPrice)
}

// Mirror receives user changes for an external copy such as the graph.
type Mirror interface {
	SyncUser(ctx context.Context, rec model.Record) error
	RemoveUser(ctx context.Context, id int64) error
}

// Deps wires a Service. Prices and Mirror may be nil; operations needing
// prices then fail with a Search error.
type Deps struct {
	Store          Store
	Prices         PriceSource
	Mirror         Mirror
	Logger         zerolog.Logger
	RecommendLimit int
}

// Service owns the GameIndex. The index is guarded by a mutex because the
// scheduler may refresh prices while commands run.
type Service struct {
	store  Store
	prices PriceSource
	mirror Mirror
	log    zerolog.Logger
	limit  int

	mu    sync.Mutex
	index *index.GameIndex
}

// New creates a service with an empty index; call Start to load it.
func New(deps Deps) *Service {
	limit := deps.RecommendLimit
	if limit <= 0 {
		limit = index.DefaultLimit
	}
	return &Service{
		store:  deps.Store,
		prices: deps.Prices,
		mirror: deps.Mirror,
		log:    deps.Logger.With().Str("component", "service").Logger(),
		limit:  limit,
		index:  index.New(),
	}
}

// Start rebuilds the game index from every stored user.
func (s *Service) Start(ctx context.Context) error {
	users, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	errs := s.index.Rebuild(users)
	titles := s.index.Len()
	s.mu.Unlock()

	for _, err := range errs {
		s.log.Warn().Err(err).Msg("user skipped while indexing")
	}
	s.log.Debug().Int("users", len(users)).Int("titles", titles).Msg("game index rebuilt")
	return nil
}

// IndexedTitles returns every title in the game index, ascending.
func (s *Service) IndexedTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Titles()
}

// PlayersOf returns the ids of users indexed under title.
func (s *Service) PlayersOf(title string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Users(title)
}

func (s *Service) indexUser(rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Add(rec.ID, rec)
}

func (s *Service) syncMirror(ctx context.Context, rec model.Record) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.SyncUser(ctx, rec); err != nil {
		s.log.Warn().Err(err).Int64("user_id", rec.ID).Msg("graph mirror sync failed")
	}
}
