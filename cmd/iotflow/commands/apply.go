package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/iotflow/cmd/iotflow/handlers"
)

// Apply returns the command that provisions a device end to end.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect iotflow.yaml)
//	--log-format: auto, text or json
//	--metrics-file: Write run metrics in the Prometheus text format
//
// Environment variables:
//
//	AWS_REGION, AWS_PROFILE and the usual AWS credential variables
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the device and its analytics resources",
		Long: `Provision the device identity, IoT Analytics resources, execution role
and topic rule in one run.

The device certificate, private key and Amazon root CA are written to the
configured certificate directory before the certificate is attached to
anything.

A run is not idempotent. If a resource with a configured name already
exists the run stops at that step, and nothing created earlier is removed.

Examples:
  # Provision using iotflow.yaml in the current directory
  iotflow apply

  # Use a specific config file and JSON logs
  iotflow apply -c garage.yaml --log-format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: iotflow.yaml)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", handlers.LogFormatAuto, "Log format: auto, text or json")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics to this file")

	return cmd
}
