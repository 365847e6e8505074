package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/forgekit/pkg/feature"
)

func (c *CLI) checkCommand() *cobra.Command {
	var (
		catalog  catalogFlags
		features []string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a feature selection for missing requirements and conflicts",
		Long: `Check resolves the selected features and prints the compatibility report
as JSON. It exits with an error when the selection is incompatible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, closeCatalog, err := c.openCatalog(ctx, catalog)
			if err != nil {
				return err
			}
			defer closeCatalog()

			selected, err := src.Resolve(ctx, features)
			if err != nil {
				return err
			}

			compat := feature.CheckCompatibility(selected)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(compat); err != nil {
				return err
			}
			return compat.Err()
		},
	}

	catalog.register(cmd)
	cmd.Flags().StringSliceVarP(&features, "features", "f", nil, "comma separated feature slugs")
	_ = cmd.MarkFlagRequired("features")

	return cmd
}
