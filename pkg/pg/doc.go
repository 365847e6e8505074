// Package pg connects to the PostgreSQL database that backs the feature
// catalog.
//
// Connect opens a pgx pool with retries. Migrate applies goose migrations
// from any fs.FS, which lets packages embed their own schema:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, feature.Migrations, feature.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//	src := feature.NewPostgresSource(pool)
//
// Config fields are read from PG_* environment variables with
// github.com/caarlos0/env.
package pg
