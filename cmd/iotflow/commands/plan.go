package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iotflow/cmd/iotflow/handlers"
)

// Plan returns the command that prints the requests an apply would make.
func Plan() *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would create",
		Long: `Print every request apply would send, in order, without creating anything.

Locators and policy documents are rendered exactly as they would be sent.
The account is resolved from the current credentials unless --account is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: iotflow.yaml)")
	cmd.Flags().StringVar(&opts.Account, "account", "", "AWS account ID (skips credential lookup)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "AWS region (overrides configuration and environment)")

	return cmd
}
