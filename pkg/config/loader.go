package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)

	dotenvOnce sync.Once
)

// Option adjusts how environment variables are mapped onto a struct.
type Option func(*env.Options)

// WithPrefix prepends p to every env tag, e.g. "FORGE_".
func WithPrefix(p string) Option {
	return func(o *env.Options) {
		o.Prefix = p
	}
}

// WithEnvironment parses from m instead of the process environment.
func WithEnvironment(m map[string]string) Option {
	return func(o *env.Options) {
		o.Environment = m
	}
}

// Parse maps environment variables onto a fresh T without caching.
func Parse[T any](opts ...Option) (T, error) {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}

	var v T
	if err := env.ParseWithOptions(&v, o); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// Load fills v from the environment. The first successful result for each
// type is cached; later calls copy the cached value. The default .env file
// is read once, if present, before the first parse.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := Parse[T](opts...)
	if err != nil {
		return err
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadEnv reads the given dotenv files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", p, err))
		}
	}
	return nil
}

// ResetCache drops every cached configuration. Intended for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
