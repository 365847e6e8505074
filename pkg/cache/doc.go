// Package cache provides a generic in-process LRU cache with optional
// expiry. It backs the in-memory composition result cache.
//
//	c := cache.NewLRU[string, []byte](256, cache.WithTTL[string, []byte](10*time.Minute))
//	c.Set(key, payload)
//	if v, ok := c.Get(key); ok {
//		// hit
//	}
//
// All methods are safe for concurrent use.
package cache
