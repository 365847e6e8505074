package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/compose"
	"github.com/dmitrymomot/forgekit/pkg/logger"
	"github.com/dmitrymomot/forgekit/pkg/projectname"
)

func (c *CLI) composeCommand() *cobra.Command {
	var (
		catalog   catalogFlags
		target    string
		name      string
		features  []string
		out       string
		templates string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a package.json for a feature selection",
		Example: `  forgekit compose --catalog features.yaml --target backend --name acme --features auth,payments
  forgekit compose --pg --target web --name acme --features auth --out package.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg
			if templates != "" {
				cfg.StorageDriver = compose.StorageLocal
				cfg.TemplatesDir = templates
			}

			src, closeCatalog, err := c.openCatalog(ctx, catalog)
			if err != nil {
				return err
			}
			defer closeCatalog()

			store, err := compose.NewStorage(ctx, cfg)
			if err != nil {
				return err
			}
			cache, err := compose.NewCache(ctx, cfg)
			if err != nil {
				return err
			}

			composer, err := compose.New(
				compose.NewStorageManifestSource(store, cfg.ManifestPath),
				compose.WithCatalog(src),
				compose.WithCache(cache),
				compose.WithLogger(c.log),
				compose.WithPlatform(cfg.Platform),
			)
			if err != nil {
				return err
			}

			if name == "" {
				name = projectname.Simple()
				c.log.InfoContext(ctx, "generated project name", logger.Project(name))
			}

			res, err := composer.ComposeSlugs(ctx, target, name, features)
			if err != nil {
				return err
			}

			for _, fc := range res.Contributions.FileConflicts {
				c.log.WarnContext(ctx, "file mapping dropped",
					logger.Feature(fc.Dropped.Feature),
					"destination", fc.Destination,
					"kept_from", fc.Kept.Feature,
				)
			}
			for _, ec := range res.Contributions.EnvConflicts {
				c.log.WarnContext(ctx, "env default dropped",
					logger.Feature(ec.Dropped.Feature),
					"key", ec.Key,
					"kept_from", ec.Kept.Feature,
				)
			}

			data := res.Manifest
			if asJSON {
				if data, err = json.MarshalIndent(res, "", "  "); err != nil {
					return err
				}
				data = append(data, '\n')
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", out, summary(res))
			return nil
		},
	}

	catalog.register(cmd)
	cmd.Flags().StringVarP(&target, "target", "t", "", "template target, e.g. backend or web")
	cmd.Flags().StringVarP(&name, "name", "n", "", "project name, generated when empty")
	cmd.Flags().StringSliceVarP(&features, "features", "f", nil, "comma separated feature slugs")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&templates, "templates", "", "local templates directory, overrides FORGE_TEMPLATES_DIR")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full composition result as JSON")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func summary(res *compose.Result) string {
	parts := []string{
		fmt.Sprintf("%d dependencies added", len(res.Assembly.AddedDependencies)),
		fmt.Sprintf("%d dev dependencies added", len(res.Assembly.AddedDevDependencies)),
	}
	if n := len(res.Conflicts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d version conflicts resolved", n))
	}
	return strings.Join(parts, ", ")
}
