// Package config maps environment variables onto tagged structs using
// github.com/caarlos0/env and optional dotenv files via
// github.com/joho/godotenv.
//
//	type Config struct {
//		Platform string `env:"PLATFORM" envDefault:"ForgeKit"`
//		Driver   string `env:"STORAGE_DRIVER" envDefault:"local"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("FORGE_")); err != nil {
//		return err
//	}
//
// Load caches the first successful result per type, so repeated calls are
// cheap and consistent. Parse skips the cache and is preferred in tests,
// together with WithEnvironment. ResetCache clears cached values.
package config
