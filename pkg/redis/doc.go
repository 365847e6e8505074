// Package redis opens go-redis clients for the composition result cache.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	cache := compose.NewRedisCache(client, ttl)
//
// Healthcheck wraps Ping for readiness probes. Config is read from REDIS_*
// environment variables.
package redis
