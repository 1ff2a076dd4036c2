package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Bootstrap credentials for the built-in administrator account.
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@gmail.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=1234"`

	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL,       default=30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`
	CouponSweepInterval  time.Duration `env:"COUPON_SWEEP_INTERVAL,  default=1h"`
	CouponCacheTTL       time.Duration `env:"COUPON_CACHE_TTL,       default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=coupon_marketplace"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
