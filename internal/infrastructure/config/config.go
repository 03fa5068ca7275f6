package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Demo    DemoConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

// DemoConfig switches every domain service to the in-memory provider. It is
// read once at startup.
type DemoConfig struct {
	Enabled bool          `env:"DEMO_MODE,    default=false"`
	Latency time.Duration `env:"DEMO_LATENCY, default=300ms"`
}

type SessionConfig struct {
	Backend    string        `env:"SESSION_BACKEND, default=memory"`
	Secret     string        `env:"SESSION_SECRET"`
	TTL        time.Duration `env:"SESSION_TTL,     default=24h"`
	CookieName string        `env:"SESSION_COOKIE,  default=portal_session"`
	// File is the CLI session file; empty selects the user config dir.
	File string `env:"SESSION_FILE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=feedback_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks settings envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendMongo:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be memory, redis or mongo, got %q", c.Session.Backend))
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters in production"))
	}
	if !c.Demo.Enabled && c.API.BaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required unless DEMO_MODE is set"))
	}
	if c.Demo.Latency < 0 {
		errs = append(errs, errors.New("DEMO_LATENCY must not be negative"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for entrypoints that cannot run without configuration.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
