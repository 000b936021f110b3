package identity

import (
	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/provisioning/credentials"
)

const phase = "identity"

// Provisioner handles device identity provisioning (thing, certificate, policy).
type Provisioner struct{}

// NewProvisioner creates a new identity provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Reaches implements the provisioning.Phase interface.
func (p *Provisioner) Reaches() provisioning.Stage {
	return provisioning.StageIdentityProvisioned
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Identity
	result, err := p.ProvisionIdentity(ctx, cfg.ThingName, cfg.PolicyName)
	if err != nil {
		return err
	}
	ctx.State.Identity = result
	return nil
}

// ProvisionIdentity creates the thing and its credential. The credential is
// on disk before it is attached to anything; a failure at any step stops
// the remaining ones and nothing already created is removed.
func (p *Provisioner) ProvisionIdentity(ctx *provisioning.Context, thingName, policyName string) (*provisioning.IdentityResult, error) {
	svc := ctx.Providers.Identity
	cfg := ctx.Config.Identity

	// 1. Thing
	var thing *provisioning.Thing
	if err := ctx.Step(phase, "thing", thingName, func() (string, error) {
		var err error
		thing, err = svc.CreateThing(ctx, thingName)
		if err != nil {
			return "", err
		}
		return thing.ARN, nil
	}); err != nil {
		return nil, err
	}

	// 2. Certificate
	var cred *provisioning.DeviceCredential
	if err := ctx.Step(phase, "certificate", thingName, func() (string, error) {
		var err error
		cred, err = svc.CreateKeysAndCertificate(ctx, true)
		if err != nil {
			return "", err
		}
		return cred.CertificateID, nil
	}); err != nil {
		return nil, err
	}

	// 3. Credentials on disk
	if err := ctx.Step(phase, "credentials", cfg.CertsDir, func() (string, error) {
		return cfg.CertsDir, credentials.NewMaterializer(cfg.CertsDir).Persist(cred)
	}); err != nil {
		return nil, err
	}

	// 4. Certificate to thing
	if err := ctx.Step(phase, "attach-principal", thingName, func() (string, error) {
		return cred.CertificateID, svc.AttachThingPrincipal(ctx, thingName, cred.CertificateARN)
	}); err != nil {
		return nil, err
	}

	// 5. Device policy
	if cfg.CreatePolicy {
		if err := ctx.Step(phase, "policy", policyName, func() (string, error) {
			return svc.CreatePolicy(ctx, policyName, cfg.PolicyDocument)
		}); err != nil {
			return nil, err
		}
	}

	if err := ctx.Step(phase, "attach-policy", policyName, func() (string, error) {
		return cred.CertificateID, svc.AttachPolicy(ctx, policyName, cred.CertificateARN)
	}); err != nil {
		return nil, err
	}

	return &provisioning.IdentityResult{
		ThingName:      thingName,
		ThingARN:       thing.ARN,
		CertificateID:  cred.CertificateID,
		CertificateARN: cred.CertificateARN,
		PolicyName:     policyName,
		CertsDir:       cfg.CertsDir,
	}, nil
}
