package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/iotflow/internal/orchestration"
	"github.com/imamik/iotflow/internal/provisioning"
)

// PlanOptions are the flags of the plan command.
type PlanOptions struct {
	ConfigPath string
	Account    string
	Region     string
}

// Plan prints the requests apply would make. Without an explicit account
// the caller identity is resolved from the current credentials, which is
// the only request plan sends.
func Plan(ctx context.Context, opts PlanOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	var target provisioning.CallerIdentity
	if opts.Account != "" {
		region := opts.Region
		if region == "" {
			region = cfg.AWS.Region
		}
		target = provisioning.CallerIdentity{Account: opts.Account, Region: region}
	} else {
		target, _, err = connect(ctx, cfg, opts.Region)
		if err != nil {
			return err
		}
	}

	plan, err := orchestration.Plan(cfg, target)
	if err != nil {
		return fmt.Errorf("failed to plan: %w", err)
	}

	fmt.Fprint(out, renderPlan(target, plan))
	return nil
}
