package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/iotflow/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.Save
)

// Init writes a configuration file, from the defaults or from the wizard.
func Init(ctx context.Context, outputPath string, wizard bool) error {
	if fileExists(outputPath) {
		fmt.Fprintf(out, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	cfg := config.Default()
	if wizard {
		result, err := runWizard(ctx)
		if err != nil {
			return err
		}
		cfg = result.ToConfig()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration saved!")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  File: %s\n", outputPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Device Summary")
	fmt.Fprintln(out, "--------------")
	fmt.Fprintf(out, "  Thing:        %s\n", cfg.Identity.ThingName)
	fmt.Fprintf(out, "  Certificates: %s\n", cfg.Identity.CertsDir)
	fmt.Fprintf(out, "  Channel:      %s\n", cfg.Analytics.ChannelName)
	fmt.Fprintf(out, "  Datastore:    %s\n", cfg.Analytics.DatastoreName)
	fmt.Fprintf(out, "  Schedule:     %s\n", cfg.Analytics.Schedule)
	fmt.Fprintf(out, "  Rule:         %s\n", cfg.Rule.RuleName)
	if cfg.AWS.Region != "" {
		fmt.Fprintf(out, "  Region:       %s\n", cfg.AWS.Region)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Next Steps")
	fmt.Fprintln(out, "----------")
	fmt.Fprintln(out, "  1. Make AWS credentials available (AWS_PROFILE or AWS_ACCESS_KEY_ID)")
	fmt.Fprintf(out, "  2. Review %s if needed\n", outputPath)
	fmt.Fprintln(out, "  3. Check the requests with: iotflow plan")
	fmt.Fprintln(out, "  4. Provision with:          iotflow apply")
	fmt.Fprintln(out)
}
