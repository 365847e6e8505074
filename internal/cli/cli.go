package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/compose"
	"github.com/dmitrymomot/forgekit/pkg/config"
	"github.com/dmitrymomot/forgekit/pkg/feature"
	"github.com/dmitrymomot/forgekit/pkg/logger"
	"github.com/dmitrymomot/forgekit/pkg/pg"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the build information shown by --version. main calls it
// with values injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all subcommands.
type CLI struct {
	stderr io.Writer
	env    map[string]string
	log    *slog.Logger
	cfg    compose.Config
}

type Option func(*CLI)

// WithEnvironment replaces the process environment when reading
// configuration.
func WithEnvironment(env map[string]string) Option {
	return func(c *CLI) { c.env = env }
}

// New builds a CLI that logs to stderr.
func New(stderr io.Writer, opts ...Option) *CLI {
	c := &CLI{stderr: stderr, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CLI) configOptions(prefix string) []config.Option {
	opts := []config.Option{config.WithPrefix(prefix)}
	if c.env != nil {
		opts = append(opts, config.WithEnvironment(c.env))
	}
	return opts
}

func (c *CLI) setup(verbose bool, level, format string, envFiles []string) error {
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	cfg, err := config.Parse[compose.Config](c.configOptions(compose.EnvPrefix)...)
	if err != nil {
		return err
	}
	c.cfg = cfg

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "forgekit"),
		logger.WithOutput(c.stderr),
		logger.WithContextValue("composition_id", compose.IDContextKey{}),
	}
	if format != "" {
		f, err := logger.ParseFormat(format)
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithFormat(f))
	}
	if level != "" {
		l, err := logger.ParseLevel(level)
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithLevel(l))
	}
	if verbose {
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	}
	c.log = logger.New(opts...)
	return nil
}

// catalogFlags selects where features are read from.
type catalogFlags struct {
	path     string
	postgres bool
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "catalog", "c", "", "feature catalog YAML file")
	cmd.Flags().BoolVar(&f.postgres, "pg", false, "read the feature catalog from PostgreSQL (PG_* variables)")
	cmd.MarkFlagsMutuallyExclusive("catalog", "pg")
	cmd.MarkFlagsOneRequired("catalog", "pg")
}

// openCatalog returns the selected source and a function releasing it.
func (c *CLI) openCatalog(ctx context.Context, f catalogFlags) (feature.Source, func(), error) {
	if !f.postgres {
		src, err := feature.LoadYAML(f.path)
		if err != nil {
			return nil, nil, err
		}
		c.log.DebugContext(ctx, "catalog loaded", slog.String("path", f.path))
		return src, func() {}, nil
	}

	pool, _, err := c.connectPG(ctx)
	if err != nil {
		return nil, nil, err
	}
	return feature.NewPostgresSource(pool), pool.Close, nil
}

func (c *CLI) pgConfig() (pg.Config, error) {
	return config.Parse[pg.Config](c.configOptions("")...)
}

func (c *CLI) connectPG(ctx context.Context) (*pgxpool.Pool, pg.Config, error) {
	cfg, err := c.pgConfig()
	if err != nil {
		return nil, cfg, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("connect catalog database: %w", err)
	}
	return pool, cfg, nil
}
