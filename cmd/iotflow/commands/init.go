package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iotflow/cmd/iotflow/handlers"
)

// Init returns the command for creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "iotflow.yaml")
//	--wizard, -w: Ask for the common values interactively
func Init() *cobra.Command {
	var (
		outputPath string
		wizard     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a configuration file with the defaults for an ESP32 traffic-data device.

Use --wizard to choose the region, thing name, certificate directory,
telemetry topic and analytics names interactively.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, wizard)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "iotflow.yaml", "Output file path")
	cmd.Flags().BoolVarP(&wizard, "wizard", "w", false, "Run the interactive wizard")

	return cmd
}
