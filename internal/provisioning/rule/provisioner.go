package rule

import (
	"fmt"

	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/util/naming"
)

const phase = "rule"

// Provisioner handles the routing rule.
type Provisioner struct{}

// NewProvisioner creates a new routing rule provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Reaches implements the provisioning.Phase interface.
func (p *Provisioner) Reaches() provisioning.Stage {
	return provisioning.StageRuleProvisioned
}

// Provision implements the provisioning.Phase interface. It needs the
// results of both the analytics and the role phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Analytics == nil || ctx.State.Role == nil {
		return &provisioning.StepError{
			Phase: phase,
			Step:  "topic-rule",
			Err:   provisioning.ConfigDefect("the routing rule needs the channel and the execution role"),
		}
	}
	cfg := ctx.Config.Rule
	return p.ProvisionRoutingRule(ctx, cfg.RuleName, cfg.SQL, ctx.State.Analytics.ChannelName, ctx.State.Role)
}

// ProvisionRoutingRule creates an enabled rule forwarding messages matched by
// matchSQL into channelName, authorized by role. The role's policy must be
// scoped to exactly that channel in the target account.
func (p *Provisioner) ProvisionRoutingRule(ctx *provisioning.Context, ruleName, matchSQL, channelName string, role *provisioning.RoleResult) error {
	if role == nil || role.RoleARN == "" {
		return &provisioning.StepError{
			Phase:    phase,
			Step:     "topic-rule",
			Resource: ruleName,
			Err:      provisioning.ConfigDefect("no execution role for rule %q", ruleName),
		}
	}
	channel, err := naming.ChannelARN(ctx.Target.Region, ctx.Target.Account, channelName)
	if err != nil {
		return &provisioning.StepError{
			Phase:    phase,
			Step:     "topic-rule",
			Resource: ruleName,
			Err:      fmt.Errorf("%w: %w", provisioning.ErrConfigDefect, err),
		}
	}
	if role.ChannelResource != channel {
		return &provisioning.StepError{
			Phase:    phase,
			Step:     "topic-rule",
			Resource: ruleName,
			Err: provisioning.ConfigDefect("role %s may write to %q but the rule targets %q",
				role.RoleName, role.ChannelResource, channel),
		}
	}

	cfg := ctx.Config.Rule
	rule := provisioning.TopicRule{
		Name:        ruleName,
		Description: cfg.Description,
		SQL:         matchSQL,
		SQLVersion:  cfg.SQLVersion,
		ChannelName: channelName,
		RoleARN:     role.RoleARN,
		BatchMode:   false,
		Disabled:    false,
	}

	ruleARN := naming.TopicRuleARN(ctx.Target.Region, ctx.Target.Account, ruleName)
	if err := ctx.Step(phase, "topic-rule", ruleName, func() (string, error) {
		return ruleARN, ctx.Providers.Rules.CreateTopicRule(ctx, rule)
	}); err != nil {
		return err
	}

	ctx.State.Rule = &provisioning.RuleResult{
		RuleName:    ruleName,
		RuleARN:     ruleARN,
		ChannelName: channelName,
		RoleARN:     role.RoleARN,
	}
	return nil
}
