package cmd

import (
	"fmt"

	"github.com/devantler-tech/obsail/pkg/io/configmanager"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Inspect obsail configuration",
		Args:         cobra.NoArgs,
		RunE:         helpRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of obsail.yaml",
		Long: `Print the JSON schema of obsail.yaml. Point an editor's YAML language
server at it to validate configuration files while editing.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := configmanager.SchemaJSON()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	})

	return cmd
}
