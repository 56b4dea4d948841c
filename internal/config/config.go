package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/guarzo/gamematch/internal/catalog"
	"github.com/guarzo/gamematch/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. GAMEMATCH_STORE_PATH.
const EnvPrefix = "GAMEMATCH"

// Config aggregates application configuration values.
type Config struct {
	Log         logging.Config    `mapstructure:"log"`
	Store       StoreConfig       `mapstructure:"store"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Recommend   RecommendConfig   `mapstructure:"recommend"`
	Graph       GraphConfig       `mapstructure:"graph"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	GameLists   GameListsConfig   `mapstructure:"gamelists"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig controls the marketplace response cache. An empty path
// disables caching.
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// MarketplaceConfig describes the catalog search API and matching lists.
type MarketplaceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Site      string        `mapstructure:"site"`
	Category  string        `mapstructure:"category"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Consoles  []string      `mapstructure:"consoles"`
	Blacklist []string      `mapstructure:"blacklist"`
}

// RecommendConfig bounds recommendation lists.
type RecommendConfig struct {
	Limit int `mapstructure:"limit"`
}

// GraphConfig describes the optional Neo4j preference mirror. An empty URI
// disables it.
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ScheduleConfig drives the watch command.
type ScheduleConfig struct {
	Prices     string `mapstructure:"prices"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// GameListsConfig drives the console game-list scraper.
type GameListsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Consoles  []string      `mapstructure:"consoles"`
	OutputDir string        `mapstructure:"output_dir"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Workers   int           `mapstructure:"workers"`
}

// SetDefaults registers every key so env overrides resolve during Unmarshal.
func SetDefaults(v *viper.Viper) {
	def := logging.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.format", def.Format)
	v.SetDefault("log.output", def.Output)

	v.SetDefault("store.path", "gamematch.db")

	v.SetDefault("cache.path", ".cache/marketplace.json")
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("marketplace.base_url", "https://api.mercadolibre.com")
	v.SetDefault("marketplace.site", "MLB")
	v.SetDefault("marketplace.category", "MLB186456")
	v.SetDefault("marketplace.delay", time.Second)
	v.SetDefault("marketplace.timeout", 30*time.Second)
	v.SetDefault("marketplace.consoles", catalog.DefaultConsoles)
	v.SetDefault("marketplace.blacklist", catalog.DefaultBlacklist)

	v.SetDefault("recommend.limit", 5)

	v.SetDefault("graph.uri", "")
	v.SetDefault("graph.database", "")
	v.SetDefault("graph.username", "")
	v.SetDefault("graph.password", "")

	v.SetDefault("schedule.prices", "@daily")
	v.SetDefault("schedule.run_on_start", false)

	v.SetDefault("gamelists.base_url", "https://pt.wikipedia.org/wiki/")
	v.SetDefault("gamelists.consoles", []string{
		"PlayStation_5",
		"PlayStation_4",
		"Xbox_Series_X_e_Series_S",
		"Xbox_360",
		"Nintendo_Switch",
	})
	v.SetDefault("gamelists.output_dir", "gamelists")
	v.SetDefault("gamelists.delay", time.Second)
	v.SetDefault("gamelists.timeout", 30*time.Second)
	v.SetDefault("gamelists.workers", 2)
}

// Load resolves configuration from defaults, .env files, the environment and
// an optional config file. When configFile is empty, gamematch.{yaml,json,toml}
// is searched in the working directory and $HOME; not finding one is fine.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	LoadEnvFiles(".env", ".env.local")

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gamematch")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFiles loads each file that exists; later files override earlier ones.
func LoadEnvFiles(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Overload(f)
	}
}

// Validate rejects values that would make components misbehave.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Marketplace.BaseURL == "" {
		return fmt.Errorf("marketplace.base_url must not be empty")
	}
	if c.Marketplace.Delay < 0 {
		return fmt.Errorf("marketplace.delay must not be negative")
	}
	if c.Recommend.Limit <= 0 {
		return fmt.Errorf("recommend.limit must be positive, got %d", c.Recommend.Limit)
	}
	return nil
}
