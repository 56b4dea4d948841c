// Package marketplace queries the Mercado Livre catalog search API and turns
// its results into priced catalog hits.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/cache"
	"github.com/guarzo/gamematch/internal/catalog"
	"github.com/guarzo/gamematch/internal/httpx"
	"github.com/guarzo/gamematch/internal/model"
)

// Config describes the search endpoint and pacing.
type Config struct {
	BaseURL  string
	Site     string
	Category string
	// Delay is the minimum spacing between API calls.
	Delay    time.Duration
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig targets the Brazilian video-game category.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.mercadolibre.com",
		Site:     "MLB",
		Category: "MLB186456",
		Delay:    time.Second,
		Timeout:  30 * time.Second,
		CacheTTL: 15 * time.Minute,
	}
}

// Client searches the marketplace. Calls are serialized through a limiter
// that releases one request per Delay.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.Cache
	limiter    *rate.Limiter
	matcher    *catalog.Matcher
	log        zerolog.Logger
}

// NewClient builds a client. A nil cache disables caching and a nil matcher
// uses catalog.DefaultMatcher.
func NewClient(cfg Config, matcher *catalog.Matcher, c *cache.Cache, log zerolog.Logger) *Client {
	if matcher == nil {
		matcher = catalog.DefaultMatcher()
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		limiter:    rate.NewLimiter(limit, 1),
		matcher:    matcher,
		log:        log.With().Str("component", "marketplace").Logger(),
	}
}

type searchResponse struct {
	Results []struct {
		Title     string   `json:"title"`
		Price     *float64 `json:"price"`
		Permalink string   `json:"permalink"`
	} `json:"results"`
}

// SearchURL builds the search request URL for query.
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("category", c.cfg.Category)
	params.Set("q", query)
	return fmt.Sprintf("%s/sites/%s/search?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.Site), params.Encode())
}

// Search returns the raw hits for query. Hits without a usable price are
// dropped. Transport failures and non-200 responses are Search errors.
func (c *Client) Search(ctx context.Context, query string) ([]model.RawHit, error) {
	const op = "marketplace.search"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.Validation, op, "query must not be empty")
	}

	key := cache.SearchKey(c.cfg.Site, c.cfg.Category, query)
	if c.cache != nil {
		var hits []model.RawHit
		if found, _ := c.cache.Get(key, &hits); found {
			c.log.Debug().Str("query", query).Int("hits", len(hits)).Msg("cache hit")
			return hits, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.Search, op, fmt.Errorf("rate limiter: %w", err))
	}

	body, err := httpx.Get(ctx, c.httpClient, c.SearchURL(query), "application/json")
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.Search, Op: op, Message: fmt.Sprintf("search %q", query), Err: err}
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &apperr.Error{Kind: apperr.Search, Op: op, Message: "decode response", Err: err}
	}

	hits := make([]model.RawHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Price == nil || !validPrice(*r.Price) {
			continue
		}
		hits = append(hits, model.RawHit{
			Title:     r.Title,
			Price:     *r.Price,
			Permalink: r.Permalink,
		})
	}

	c.log.Debug().Str("query", query).Int("results", len(resp.Results)).Int("priced", len(hits)).Msg("search complete")

	if c.cache != nil && c.cfg.CacheTTL > 0 {
		if err := c.cache.Put(key, hits, c.cfg.CacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return hits, nil
}

// LowestPrice searches for query, filters the hits through the matcher and
// returns the cheapest one together with every matched hit. An empty match
// is not an error: the result has Found=false.
func (c *Client) LowestPrice(ctx context.Context, query string) (model.BestPrice, []model.CatalogHit, error) {
	raw, err := c.Search(ctx, query)
	if err != nil {
		return model.BestPrice{Query: query}, nil, err
	}

	matched := c.matcher.Match(query, raw)
	best := catalog.Cheapest(query, matched)
	if !best.Found {
		c.log.Info().Str("query", query).Int("raw_hits", len(raw)).Msg("no matching listings")
	}
	return best, matched, nil
}

// Progress is notified after each title of a batch.
type Progress func(done int)

// BatchPrices looks up each distinct title in order. A failed title is logged
// and skipped; cancellation of ctx stops the batch early and returns what was
// collected so far.
func (c *Client) BatchPrices(ctx context.Context, titles []string, progress Progress) ([]model.CatalogHit, []model.BestPrice) {
	allHits := []model.CatalogHit{}
	prices := []model.BestPrice{}
	seen := make(map[string]struct{}, len(titles))

	for i, title := range titles {
		if ctx.Err() != nil {
			c.log.Warn().Err(ctx.Err()).Int("done", i).Int("total", len(titles)).Msg("batch interrupted")
			break
		}

		title = strings.TrimSpace(title)
		if _, dup := seen[title]; dup || title == "" {
			if progress != nil {
				progress(i + 1)
			}
			continue
		}
		seen[title] = struct{}{}

		best, hits, err := c.LowestPrice(ctx, title)
		if err != nil {
			c.log.Error().Err(err).Str("title", title).Msg("price lookup failed")
		} else {
			allHits = append(allHits, hits...)
			prices = append(prices, best)
		}

		if progress != nil {
			progress(i + 1)
		}
	}

	return allHits, prices
}

// validPrice rejects prices no listing can carry.
func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}
