package authz

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/config"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
	"github.com/dmitrymomot/gatekeeper/pkg/redis"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// ErrInvalidConfig is returned for unknown backends or out of range values.
var ErrInvalidConfig = errors.New("authz service: invalid config")

// Config wires the engine from the environment. Nested logger, Postgres and
// Redis settings use their own LOG_*, PG_* and REDIS_* keys.
type Config struct {
	Store           string        `env:"AUTHZ_STORE" envDefault:"memory"`
	Cache           string        `env:"AUTHZ_CACHE" envDefault:"memory"`
	CacheTTL        time.Duration `env:"AUTHZ_CACHE_TTL" envDefault:"60s"`
	CacheSize       int           `env:"AUTHZ_CACHE_SIZE" envDefault:"10000"`
	VersionStamping bool          `env:"AUTHZ_VERSION_STAMPING" envDefault:"true"`
	Timeout         time.Duration `env:"AUTHZ_TIMEOUT" envDefault:"2s"`
	AuditBuffer     int           `env:"AUTHZ_AUDIT_BUFFER" envDefault:"1024"`
	AuditAllows     bool          `env:"AUTHZ_AUDIT_ALLOWS" envDefault:"false"`
	RolesFile       string        `env:"AUTHZ_ROLES_FILE"` // YAML role catalog; built-in roles when empty

	Log      logger.Config
	Postgres pg.Config
	Redis    redis.Config
}

// LoadConfig reads Config from the environment.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and sizes.
func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	switch c.Cache {
	case CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("%w: unknown cache %q", ErrInvalidConfig, c.Cache)
	}
	if c.CacheTTL < 0 || c.Timeout < 0 || c.AuditBuffer < 0 || c.CacheSize < 0 {
		return fmt.Errorf("%w: negative duration or size", ErrInvalidConfig)
	}
	return nil
}
