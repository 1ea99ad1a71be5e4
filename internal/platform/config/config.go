// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all recognized options. Defaults follow the historical
// deployment values.
type Config struct {
	AppEnv      string  `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string  `env:"POSTGRES_DSN,required"`
	BotToken    string  `env:"BOT_TOKEN,required"`
	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Detection policy
	CheckOnlyForwarded  bool    `env:"CHECK_ONLY_FORWARDED_MESSAGES" envDefault:"true"`
	CheckLinks          bool    `env:"CHECK_LINKS" envDefault:"true"`
	SimilarityThreshold float64 `env:"DUPLICATE_SIMILARITY_THRESHOLD" envDefault:"0.5"`
	MinTextWords        int     `env:"MESSAGE_LENGTH_WORDS_THRESHOLD" envDefault:"10"`
	RecentMessagesLimit int     `env:"RECENT_MESSAGES_AMOUNT" envDefault:"50"`

	// Warning self-destruction: lifetime is tick * multiplier.
	SelfDestructionTick       time.Duration `env:"SELF_DESTRUCTION_TICK" envDefault:"5s"`
	SelfDestructionMultiplier int           `env:"SELF_DESTRUCTION_MULTIPLIER" envDefault:"10"`

	HealthPort     int           `env:"HEALTH_PORT" envDefault:"8080"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"1"`
	ProcessTimeout time.Duration `env:"PROCESS_TIMEOUT" envDefault:"30s"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// WarningLifetime returns the total time a warning stays visible before
// self-destructing.
func (c *Config) WarningLifetime() time.Duration {
	return c.SelfDestructionTick * time.Duration(c.SelfDestructionMultiplier)
}

// IsAdmin reports whether the user id is in the configured admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}

	return false
}
