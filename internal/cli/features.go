package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/feature"
)

func (c *CLI) featuresCommand() *cobra.Command {
	var (
		catalog catalogFlags
		tier    string
		module  string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List catalog features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeCatalog, err := c.openCatalog(ctx, catalog)
			if err != nil {
				return err
			}
			defer closeCatalog()

			modules, err := src.ListModules(ctx)
			if err != nil {
				return err
			}
			names := make(map[uuid.UUID]string, len(modules))
			filter := feature.Filter{ActiveOnly: !all}
			for _, m := range modules {
				names[m.ID] = m.Slug
				if m.Slug == module {
					filter.ModuleID = m.ID
				}
			}
			if module != "" && filter.ModuleID == uuid.Nil {
				return fmt.Errorf("%w: %s", feature.ErrModuleNotFound, module)
			}
			if tier != "" {
				t, err := feature.ParseTier(tier)
				if err != nil {
					return err
				}
				filter.Tier = &t
			}

			list, err := src.ListFeatures(ctx, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tMODULE\tTIER\tPRICE\tREQUIRES\tCONFLICTS")
			for _, f := range list {
				t := "-"
				if f.Tier != nil {
					t = string(*f.Tier)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					f.Slug, orDash(names[f.ModuleID]), t, f.Price,
					orDash(strings.Join(f.Requires, ",")), orDash(strings.Join(f.Conflicts, ",")),
				)
			}
			return w.Flush()
		},
	}

	catalog.register(cmd)
	cmd.Flags().StringVar(&tier, "tier", "", "only features available at this tier")
	cmd.Flags().StringVar(&module, "module", "", "only features of this module slug")
	cmd.Flags().BoolVar(&all, "all", false, "include inactive features")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
