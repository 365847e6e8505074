package cli

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/feature"
	"github.com/dmitrymomot/forgekit/pkg/pg"
)

func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the PostgreSQL feature catalog",
	}
	cmd.AddCommand(c.migrateCommand())
	cmd.AddCommand(c.importCommand())
	return cmd
}

func (c *CLI) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, cfg, err := c.connectPG(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pg.Migrate(ctx, pool, feature.Migrations, feature.MigrationsDir, cfg, c.log); err != nil {
				return err
			}
			c.log.InfoContext(ctx, "catalog migrations applied")
			return nil
		},
	}
}

func (c *CLI) importCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert modules and features from a YAML catalog into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := feature.LoadYAML(path)
			if err != nil {
				return err
			}

			pool, _, err := c.connectPG(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			db := feature.NewPostgresSource(pool)

			modules, err := src.ListModules(ctx)
			if err != nil {
				return err
			}
			// Stored IDs win over YAML ones when a module slug already exists.
			ids := make(map[uuid.UUID]uuid.UUID, len(modules))
			for _, m := range modules {
				yamlID := m.ID
				if err := db.UpsertModule(ctx, &m); err != nil {
					return fmt.Errorf("module %s: %w", m.Slug, err)
				}
				ids[yamlID] = m.ID
			}

			features, err := src.ListFeatures(ctx, feature.Filter{})
			if err != nil {
				return err
			}
			for _, f := range features {
				if id, ok := ids[f.ModuleID]; ok {
					f.ModuleID = id
				}
				if err := db.UpsertFeature(ctx, &f); err != nil {
					return fmt.Errorf("feature %s: %w", f.Slug, err)
				}
			}

			c.log.InfoContext(ctx, "catalog imported",
				slog.String("path", path),
				slog.Int("modules", len(modules)),
				slog.Int("features", len(features)),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "catalog", "c", "", "feature catalog YAML file")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
