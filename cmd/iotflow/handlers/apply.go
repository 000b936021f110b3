// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/orchestration"
	platformaws "github.com/imamik/iotflow/internal/platform/aws"
	"github.com/imamik/iotflow/internal/provisioning"
)

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*provisioning.State, error)
	SetObserver(observer provisioning.Observer)
	SetMetrics(metrics *provisioning.Metrics)
	RunID() string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadAWSConfig resolves credentials and region from the environment.
	loadAWSConfig = platformaws.LoadConfig

	// resolveCallerIdentity looks up the account of the current credentials.
	resolveCallerIdentity = func(ctx context.Context, cfg sdkaws.Config) (provisioning.CallerIdentity, error) {
		return platformaws.ResolveCallerIdentity(ctx, platformaws.NewSTSClient(cfg), cfg.Region)
	}

	// newProviders creates the AWS provider adapters.
	newProviders = platformaws.NewProviders

	// newReconciler creates a new provisioning reconciler.
	newReconciler = func(cfg *config.Config, target provisioning.CallerIdentity, providers provisioning.Providers) Reconciler {
		return orchestration.NewReconciler(cfg, target, providers)
	}

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.Load

	// findConfigFile finds the default config file (for testing injection).
	findConfigFile = config.FindConfigFile

	// out receives summaries and plans.
	out io.Writer = os.Stdout

	// logOut receives run logs.
	logOut io.Writer = os.Stderr
)

// ApplyOptions are the flags of the apply command.
type ApplyOptions struct {
	ConfigPath  string
	LogFormat   string
	MetricsFile string
}

// Apply provisions the device end to end.
//
// This function runs the complete workflow:
//  1. Loads and validates the configuration
//  2. Resolves the AWS account and region once
//  3. Runs identity, analytics, role and rule phases in order
//  4. Writes run metrics if requested, also after a failed run
//  5. Prints a summary of what was created or where the run stopped
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer, err := newObserver(opts.LogFormat, logOut)
	if err != nil {
		return err
	}

	target, providers, err := connect(ctx, cfg, "")
	if err != nil {
		return err
	}

	reconciler := newReconciler(cfg, target, providers)
	reconciler.SetObserver(observer)
	metrics := provisioning.NewMetrics()
	reconciler.SetMetrics(metrics)

	state, runErr := reconciler.Reconcile(ctx)

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			observer.Printf("Warning: failed to write metrics to %s: %v", opts.MetricsFile, err)
		}
	}

	if state != nil {
		fmt.Fprint(out, renderRunSummary(cfg, target, state, reconciler.RunID()))
	}

	if runErr != nil {
		return fmt.Errorf("provisioning failed: %w", runErr)
	}
	return nil
}

// loadConfig loads and validates the configuration.
// If configPath is empty, it looks for iotflow.yaml in the current
// directory and its parents.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'iotflow init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// connect loads the AWS configuration and resolves the caller identity.
// A non-empty region overrides the configuration file.
func connect(ctx context.Context, cfg *config.Config, region string) (provisioning.CallerIdentity, provisioning.Providers, error) {
	if region == "" {
		region = cfg.AWS.Region
	}

	awsCfg, err := loadAWSConfig(ctx, region, cfg.AWS.Profile)
	if err != nil {
		return provisioning.CallerIdentity{}, provisioning.Providers{}, err
	}

	target, err := resolveCallerIdentity(ctx, awsCfg)
	if err != nil {
		return provisioning.CallerIdentity{}, provisioning.Providers{}, err
	}

	return target, newProviders(awsCfg), nil
}
