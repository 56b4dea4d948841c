package gamelist

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/guarzo/gamematch/internal/cache"
	"github.com/guarzo/gamematch/internal/concurrent"
	"github.com/guarzo/gamematch/internal/httpx"
)

// PagePrefix precedes the console name in list page titles.
const PagePrefix = "Lista_de_jogos_para_"

// DefaultConsoles are the consoles whose list pages are scraped.
var DefaultConsoles = []string{
	"PlayStation_5",
	"PlayStation_4",
	"Xbox_Series_X_e_Series_S",
	"Xbox_360",
	"Nintendo_Switch",
}

// Config controls where pages come from and how fast they are fetched.
type Config struct {
	BaseURL  string
	Delay    time.Duration
	Timeout  time.Duration
	CacheTTL time.Duration
	// Workers bounds concurrent page fetches; zero uses the CPU count.
	Workers int
}

// ConsoleList is the merged game table of one console.
type ConsoleList struct {
	Console string `json:"console"`
	URL     string `json:"url"`
	Table   Table  `json:"table"`
}

// Scraper fetches and parses console list pages.
type Scraper struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	log     zerolog.Logger
}

// NewScraper creates a scraper. A nil cache disables caching.
func NewScraper(cfg Config, c *cache.Cache, log zerolog.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pt.wikipedia.org/wiki/"
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		cache:   c,
		log:     log.With().Str("component", "gamelist").Logger(),
	}
}

// PageURL returns the list page address for console.
func (s *Scraper) PageURL(console string) string {
	base := s.cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + PagePrefix + console
}

// Fetch downloads and parses the list page of one console.
func (s *Scraper) Fetch(ctx context.Context, console string) (ConsoleList, error) {
	url := s.PageURL(console)
	key := cache.GameListKey(console)

	if s.cache != nil {
		var cached ConsoleList
		if found, _ := s.cache.Get(key, &cached); found {
			return cached, nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return ConsoleList{}, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := httpx.Get(ctx, s.client, url, "text/html")
	if err != nil {
		return ConsoleList{}, fmt.Errorf("fetch %s: %w", url, err)
	}

	tables, err := ParseTables(bytes.NewReader(body))
	if err != nil {
		return ConsoleList{}, fmt.Errorf("process %s: %w", url, err)
	}

	list := ConsoleList{Console: console, URL: url, Table: Merge(tables)}
	s.log.Info().
		Str("console", console).
		Int("tables", len(tables)).
		Int("games", len(list.Table.Rows)).
		Msg("scraped game list")

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Put(key, list, s.cfg.CacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return list, nil
}

// FetchAll scrapes the consoles on cfg.Workers workers, still paced by the
// shared limiter. Lists come back in input order; a failing console is
// logged and skipped.
func (s *Scraper) FetchAll(ctx context.Context, consoles []string) []ConsoleList {
	results, m := concurrent.Map(ctx, concurrent.NewPool(s.cfg.Workers), consoles, s.Fetch)

	out := make([]ConsoleList, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			if ctx.Err() == nil {
				s.log.Error().Err(r.Err).Str("console", r.Item).Msg("scrape failed")
			}
			continue
		}
		out = append(out, r.Value)
	}

	s.log.Debug().
		Int("consoles", m.Total).
		Int("failed", m.Failed).
		Int("skipped", m.Skipped).
		Dur("took", m.TotalTime).
		Msg("game lists fetched")
	return out
}
