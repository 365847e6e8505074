package compose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/forgekit/pkg/file"
	"github.com/dmitrymomot/forgekit/pkg/redis"
)

// EnvPrefix is prepended to every Config variable, e.g. FORGE_PLATFORM.
const EnvPrefix = "FORGE_"

// Storage drivers accepted by Config.StorageDriver.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Cache drivers accepted by Config.CacheDriver.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds composer settings. Load it with
// config.Load(&cfg, config.WithPrefix(compose.EnvPrefix)).
type Config struct {
	// Env selects logging defaults: development, staging or production.
	Env           string `env:"ENV" envDefault:"development"`
	Platform      string `env:"PLATFORM" envDefault:"ForgeKit"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	TemplatesDir  string `env:"TEMPLATES_DIR" envDefault:"."`
	// ManifestPath locates a base manifest; {target} is replaced with the
	// requested target.
	ManifestPath string `env:"MANIFEST_PATH" envDefault:"templates/{target}/package.json"`

	CacheDriver string        `env:"CACHE_DRIVER" envDefault:"memory"`
	CacheSize   int           `env:"CACHE_SIZE" envDefault:"256"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	S3    file.S3Config
	Redis redis.Config
}

// NewStorage opens the base-manifest storage selected by cfg.StorageDriver.
func NewStorage(ctx context.Context, cfg Config) (file.Storage, error) {
	switch cfg.StorageDriver {
	case StorageLocal, "":
		s, err := file.NewLocalStorage(cfg.TemplatesDir)
		if err != nil {
			return nil, errors.Join(ErrConfiguration, err)
		}
		return s, nil
	case StorageS3:
		s, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, errors.Join(ErrConfiguration, err)
		}
		return s, nil
	}
	return nil, errors.Join(ErrConfiguration, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver))
}

// NewCache builds the result cache selected by cfg.CacheDriver. It returns a
// nil Cache for CacheNone. The redis driver connects eagerly.
func NewCache(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.CacheDriver {
	case CacheNone, "":
		return nil, nil
	case CacheMemory:
		if cfg.CacheSize <= 0 {
			return nil, errors.Join(ErrConfiguration, fmt.Errorf("cache size must be positive, got %d", cfg.CacheSize))
		}
		return NewMemoryCache(cfg.CacheSize, cfg.CacheTTL), nil
	case CacheRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(ErrConfiguration, err)
		}
		return NewRedisCache(client, cfg.CacheTTL), nil
	}
	return nil, errors.Join(ErrConfiguration, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver))
}
