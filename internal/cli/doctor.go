package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/compose"
	"github.com/dmitrymomot/forgekit/pkg/manifest"
	"github.com/dmitrymomot/forgekit/pkg/pg"
	"github.com/dmitrymomot/forgekit/pkg/redis"
)

var errChecksFailed = errors.New("one or more checks failed")

type probe struct {
	name string
	run  func(context.Context) error
}

func (c *CLI) doctorCommand() *cobra.Command {
	var (
		targets []string
		checkPG bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check template storage, base manifests and backing services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var probes []probe
			store, storeErr := compose.NewStorage(ctx, c.cfg)
			probes = append(probes, probe{
				name: "storage " + c.cfg.StorageDriver,
				run:  func(context.Context) error { return storeErr },
			})
			if storeErr == nil {
				src := compose.NewStorageManifestSource(store, c.cfg.ManifestPath)
				for _, target := range targets {
					probes = append(probes, probe{
						name: "manifest " + src.Path(target),
						run: func(ctx context.Context) error {
							data, err := src.BaseManifest(ctx, target)
							if err != nil {
								return err
							}
							_, err = manifest.Parse(data)
							return err
						},
					})
				}
			}

			if checkPG {
				probes = append(probes, probe{name: "postgres", run: func(ctx context.Context) error {
					pool, _, err := c.connectPG(ctx)
					if err != nil {
						return err
					}
					defer pool.Close()
					return pg.Healthcheck(pool)(ctx)
				}})
			}
			if c.cfg.CacheDriver == compose.CacheRedis {
				probes = append(probes, probe{name: "redis", run: func(ctx context.Context) error {
					client, err := redis.Connect(ctx, c.cfg.Redis)
					if err != nil {
						return err
					}
					defer func() { _ = client.Close() }()
					return redis.Healthcheck(client)(ctx)
				}})
			}

			failed := false
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, p := range probes {
				if err := p.run(ctx); err != nil {
					failed = true
					fmt.Fprintf(w, "FAIL\t%s\t%v\n", p.name, err)
					continue
				}
				fmt.Fprintf(w, "ok\t%s\t\n", p.name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&targets, "targets", "t", []string{"backend", "web"}, "targets whose base manifests must exist")
	cmd.Flags().BoolVar(&checkPG, "pg", false, "also check the PostgreSQL catalog (PG_* variables)")

	return cmd
}
