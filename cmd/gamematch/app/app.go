// Package app wires configuration, logging, storage and the marketplace
// client into the gamematch command tree.
package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/guarzo/gamematch/internal/cache"
	"github.com/guarzo/gamematch/internal/catalog"
	"github.com/guarzo/gamematch/internal/config"
	"github.com/guarzo/gamematch/internal/graph"
	"github.com/guarzo/gamematch/internal/logging"
	"github.com/guarzo/gamematch/internal/marketplace"
	"github.com/guarzo/gamematch/internal/service"
	"github.com/guarzo/gamematch/internal/store"
)

// App holds the resolved configuration and lazily opened dependencies.
type App struct {
	version string
	commit  string
	date    string

	// flags
	configFile string
	logLevel   string
	verbose    bool
	quiet      bool
	format     string

	out    io.Writer
	errOut io.Writer

	cfg *config.Config
	log zerolog.Logger

	mu     sync.Mutex
	store  *store.Store
	cache  *cache.Cache
	mirror *graph.Mirror
	svc    *service.Service
}

// Option customizes an App.
type Option func(*App)

// WithOutput redirects command output and progress, mainly for tests.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// New creates an App. Configuration is loaded when a command runs.
func New(version, commit, date string, opts ...Option) *App {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		out:     os.Stdout,
		errOut:  os.Stderr,
		log:     logging.New(logging.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.log
}

// Config returns the loaded configuration, nil before a command runs.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Cache opens the marketplace response cache once.
func (a *App) Cache() (*cache.Cache, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openCache()
}

func (a *App) openCache() (*cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	c, err := cache.New(a.cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	a.cache = c
	return c, nil
}

// Service opens the store, the marketplace client and the optional graph
// mirror, and rebuilds the game index. Later calls reuse the instance.
func (a *App) Service(ctx context.Context) (*service.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.svc != nil {
		return a.svc, nil
	}

	db, err := store.New(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.store = db

	c, err := a.openCache()
	if err != nil {
		return nil, err
	}

	deps := service.Deps{
		Store:          db,
		Prices:         a.marketplaceClient(c),
		Logger:         a.log,
		RecommendLimit: a.cfg.Recommend.Limit,
	}

	if a.cfg.Graph.URI != "" {
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:      a.cfg.Graph.URI,
			Database: a.cfg.Graph.Database,
			Username: a.cfg.Graph.Username,
			Password: a.cfg.Graph.Password,
		})
		if err != nil {
			a.log.Warn().Err(err).Str("uri", a.cfg.Graph.URI).Msg("graph mirror disabled")
		} else {
			a.mirror = graph.NewMirror(client)
			deps.Mirror = a.mirror
		}
	}

	svc := service.New(deps)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *App) marketplaceClient(c *cache.Cache) *marketplace.Client {
	m := a.cfg.Marketplace
	matcher := catalog.NewMatcher(m.Consoles, m.Blacklist)
	return marketplace.NewClient(marketplace.Config{
		BaseURL:  m.BaseURL,
		Site:     m.Site,
		Category: m.Category,
		Delay:    m.Delay,
		Timeout:  m.Timeout,
		CacheTTL: a.cfg.Cache.TTL,
	}, matcher, c, a.log)
}

// Shutdown closes whatever Service opened.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mirror != nil {
		if err := a.mirror.Close(ctx); err != nil {
			a.log.Warn().Err(err).Msg("close graph mirror")
		}
		a.mirror = nil
	}
	a.svc = nil
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}

// ContextWithSignals returns a context canceled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("gamematch: " + err.Error() + "\n")
		os.Exit(1)
	}
}
