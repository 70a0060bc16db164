package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Store  StoreConfig
	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	// Accounts signing up with this email become administrators.
	BootstrapAdminEmail string `env:"BOOTSTRAP_ADMIN_EMAIL"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=sqlite"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=marketplace.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from the environment. A ".env.<ENV>" file, when
// present, fills in variables that are not already set.
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(os.Getenv("ENV")); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}

func loadDotEnv(env string) error {
	env = strings.TrimSpace(env)
	if env == "" {
		env = "development"
	}
	err := godotenv.Load(".env." + env)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: load .env.%s: %w", env, err)
	}
	return nil
}
