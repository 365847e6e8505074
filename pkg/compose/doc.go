// Package compose turns a feature selection into a project package.json.
//
// A Composer validates the request, rejects incompatible selections with
// *feature.CompatibilityError, reads the base manifest for the target from a
// ManifestSource, merges the npm packages of every selected feature and
// assembles the final manifest. Version conflicts are resolved by picking the
// highest range and are reported, not raised.
//
//	store, _ := compose.NewStorage(ctx, cfg)
//	c, err := compose.New(
//		compose.NewStorageManifestSource(store, cfg.ManifestPath),
//		compose.WithCatalog(catalog),
//		compose.WithLogger(log),
//	)
//	res, err := c.ComposeSlugs(ctx, "backend", "acme", []string{"auth", "payments"})
//
// Results can be cached by a Cache (MemoryCache or RedisCache); cache
// failures are logged and never fail a composition. Errors wrap
// ErrConfiguration for server-side problems and ErrInvalidRequest for
// caller mistakes.
package compose
