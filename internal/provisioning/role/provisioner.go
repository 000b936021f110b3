package role

import (
	"fmt"
	"strings"

	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/util/naming"
)

const phase = "role"

// Provisioner handles the execution role of the routing rule.
type Provisioner struct{}

// NewProvisioner creates a new execution role provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Reaches implements the provisioning.Phase interface.
func (p *Provisioner) Reaches() provisioning.Stage {
	return provisioning.StageRoleProvisioned
}

// Provision implements the provisioning.Phase interface. The role is scoped
// to the channel created by the analytics phase.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.Analytics == nil {
		return &provisioning.StepError{
			Phase: phase,
			Step:  "channel-resource",
			Err:   provisioning.ConfigDefect("analytics resources have not been provisioned"),
		}
	}
	channel := ctx.State.Analytics.ChannelName

	resource, err := ChannelResource(ctx.Target, channel)
	if err != nil {
		return &provisioning.StepError{Phase: phase, Step: "channel-resource", Resource: channel, Err: err}
	}

	cfg := ctx.Config.Role
	result, err := p.ProvisionExecutionRole(ctx, cfg.RoleName, cfg.PolicyName, resource)
	if err != nil {
		return err
	}
	ctx.State.Role = result
	return nil
}

// ChannelResource returns the locator of channel in the target account.
func ChannelResource(target provisioning.CallerIdentity, channel string) (string, error) {
	resource, err := naming.ChannelARN(target.Region, target.Account, channel)
	if err != nil {
		return "", fmt.Errorf("%w: %w", provisioning.ErrConfigDefect, err)
	}
	return resource, nil
}

// ProvisionExecutionRole creates the role, a policy granting channel writes
// on channelResourceID, and attaches the policy to the role. The result names
// the channel so it can be handed to the routing rule as is.
func (p *Provisioner) ProvisionExecutionRole(ctx *provisioning.Context, roleName, policyName, channelResourceID string) (*provisioning.RoleResult, error) {
	svc := ctx.Providers.Roles
	path := ctx.Config.Role.Path

	if channelResourceID == "" || strings.Contains(channelResourceID, "*") {
		return nil, &provisioning.StepError{
			Phase:    phase,
			Step:     "policy",
			Resource: policyName,
			Err:      provisioning.ConfigDefect("channel resource %q is not a single channel", channelResourceID),
		}
	}

	channel, err := naming.ChannelFromARN(channelResourceID)
	if err != nil {
		return nil, &provisioning.StepError{
			Phase:    phase,
			Step:     "policy",
			Resource: policyName,
			Err:      fmt.Errorf("%w: %w", provisioning.ErrConfigDefect, err),
		}
	}

	trust, err := TrustPolicy()
	if err != nil {
		return nil, err
	}
	document, err := ChannelWritePolicy(channelResourceID)
	if err != nil {
		return nil, err
	}

	// 1. Role
	var role *provisioning.Role
	if err := ctx.Step(phase, "role", roleName, func() (string, error) {
		var err error
		role, err = svc.CreateRole(ctx, roleName, path, trust)
		if err != nil {
			return "", err
		}
		return role.ARN, nil
	}); err != nil {
		return nil, err
	}

	// 2. Policy
	var policyARN string
	if err := ctx.Step(phase, "policy", policyName, func() (string, error) {
		var err error
		policyARN, err = svc.CreatePolicy(ctx, policyName, path, document)
		return policyARN, err
	}); err != nil {
		return nil, err
	}

	// 3. Attach
	if err := ctx.Step(phase, "attach-policy", roleName, func() (string, error) {
		return policyARN, svc.AttachRolePolicy(ctx, roleName, policyARN)
	}); err != nil {
		return nil, err
	}

	return &provisioning.RoleResult{
		RoleName:        roleName,
		RoleID:          role.ID,
		RoleARN:         role.ARN,
		PolicyARN:       policyARN,
		ChannelName:     channel,
		ChannelResource: channelResourceID,
	}, nil
}
