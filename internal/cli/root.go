package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootCommand builds the forgekit command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose   bool
		logLevel  string
		logFormat string
		envFiles  []string
	)

	root := &cobra.Command{
		Use:   "forgekit",
		Short: "ForgeKit composes project manifests from selected features",
		Long: `ForgeKit checks a feature selection for missing requirements and conflicts,
then merges the npm packages of every selected feature into the base
package.json of a template target.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(verbose, logLevel, logFormat, envFiles)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("forgekit %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, defaults by FORGE_ENV")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text or json), defaults by FORGE_ENV")
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load, missing files are skipped")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.doctorCommand())

	return root
}
