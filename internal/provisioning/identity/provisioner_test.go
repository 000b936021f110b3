package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/provisioning/credentials"
	itesting "github.com/imamik/iotflow/internal/testing"
)

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	p := NewProvisioner()
	assert.Equal(t, "identity", p.Name())
	assert.Equal(t, provisioning.StageIdentityProvisioned, p.Reaches())
}

func TestProvisionIdentity_Success(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "main", "certs")
	cfg := itesting.NewConfigBuilder().WithCertsDir(dir).Build()
	fixture := itesting.NewProviderFixture()

	var attachedPrincipal, attachedPolicy, policyTarget string
	fixture.Identity.AttachThingPrincipalFunc = func(_ context.Context, thingName, principalARN string) error {
		attachedPrincipal = thingName + "=" + principalARN
		return nil
	}
	fixture.Identity.AttachPolicyFunc = func(_ context.Context, policyName, targetARN string) error {
		attachedPolicy = policyName
		policyTarget = targetARN
		return nil
	}
	ctx, _ := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	result, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")
	require.NoError(t, err)

	certARN := "arn:aws:iot:eu-central-1:123456789012:cert/" + itesting.CertificateID
	assert.Equal(t, "ESP32DevKit-C="+certARN, attachedPrincipal)
	assert.Equal(t, "ESP32Policy", attachedPolicy)
	assert.Equal(t, certARN, policyTarget)

	assert.Equal(t, []string{
		itesting.CallCreateThing,
		itesting.CallCreateKeysAndCertificate,
		itesting.CallAttachThingPrincipal,
		itesting.CallAttachPolicy,
	}, fixture.Log.Calls())

	assert.Equal(t, "ESP32DevKit-C", result.ThingName)
	assert.Equal(t, "arn:aws:iot:eu-central-1:123456789012:thing/ESP32DevKit-C", result.ThingARN)
	assert.Equal(t, itesting.CertificateID, result.CertificateID)
	assert.Equal(t, certARN, result.CertificateARN)
	assert.Equal(t, dir, result.CertsDir)
}

func TestProvisionIdentity_MaterializesCredential(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := itesting.NewConfigBuilder().WithCertsDir(dir).Build()
	fixture := itesting.NewProviderFixture()

	// The credential must already be on disk when it is attached.
	fixture.Identity.AttachThingPrincipalFunc = func(_ context.Context, _, _ string) error {
		assert.FileExists(t, filepath.Join(dir, credentials.PrivateKeyFile))
		return nil
	}
	ctx, _ := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	_, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")
	require.NoError(t, err)

	cert, err := os.ReadFile(filepath.Join(dir, credentials.CertificateFile))
	require.NoError(t, err)
	key, err := os.ReadFile(filepath.Join(dir, credentials.PrivateKeyFile))
	require.NoError(t, err)
	ca, err := os.ReadFile(filepath.Join(dir, credentials.TrustAnchorFile))
	require.NoError(t, err)

	assert.Equal(t, "CERTDATA\n", string(cert))
	assert.Equal(t, "KEYDATA\n", string(key))
	assert.Equal(t, string(credentials.TrustAnchorPEM())+"\n", string(ca))
}

func TestProvisionIdentity_CreatesPolicyWhenRequested(t *testing.T) {
	t.Parallel()
	document := `{"Version":"2012-10-17","Statement":[]}`
	cfg := itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).WithCreatePolicy(document).Build()
	fixture := itesting.NewProviderFixture()

	var gotDocument string
	fixture.Identity.CreatePolicyFunc = func(_ context.Context, name, doc string) (string, error) {
		gotDocument = doc
		return "arn:aws:iot:eu-central-1:123456789012:policy/" + name, nil
	}
	ctx, _ := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	_, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")
	require.NoError(t, err)

	assert.Equal(t, document, gotDocument)
	assert.Less(t, fixture.Log.Index(itesting.CallCreateThingPolicy), fixture.Log.Index(itesting.CallAttachPolicy))
}

func TestProvisionIdentity_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		failOn   string
		wantStep string
		wantLen  int
	}{
		{"thing", itesting.CallCreateThing, "thing", 1},
		{"certificate", itesting.CallCreateKeysAndCertificate, "certificate", 2},
		{"attach principal", itesting.CallAttachThingPrincipal, "attach-principal", 3},
		{"attach policy", itesting.CallAttachPolicy, "attach-policy", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).Build()
			fixture := itesting.NewProviderFixture()
			rejection := itesting.Rejected("iot", tt.failOn, "InvalidRequestException")
			fixture.Log.FailOn(tt.failOn, rejection)
			ctx, observer := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

			_, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")

			require.Error(t, err)
			assert.ErrorIs(t, err, rejection)
			assert.ErrorIs(t, err, provisioning.ErrProviderRejected)
			var stepErr *provisioning.StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.Len(t, fixture.Log.Calls(), tt.wantLen)
			assert.Len(t, observer.EventsOfType(provisioning.EventResourceFailed), 1)
		})
	}
}

func TestProvisionIdentity_ThingCollision(t *testing.T) {
	t.Parallel()
	cfg := itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).Build()
	fixture := itesting.NewProviderFixture()
	fixture.Log.FailOn(itesting.CallCreateThing, itesting.Collision("iot", "CreateThing"))
	ctx, observer := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	_, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")

	assert.ErrorIs(t, err, provisioning.ErrNameCollision)
	assert.Len(t, observer.EventsOfType(provisioning.EventResourceExists), 1)
	assert.Equal(t, []string{itesting.CallCreateThing}, fixture.Log.Calls())
}

func TestProvisionIdentity_LocalIOFailure(t *testing.T) {
	t.Parallel()
	blocker := filepath.Join(t.TempDir(), "certs")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg := itesting.NewConfigBuilder().WithCertsDir(blocker).Build()
	fixture := itesting.NewProviderFixture()
	ctx, _ := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	_, err := NewProvisioner().ProvisionIdentity(ctx, "ESP32DevKit-C", "ESP32Policy")

	assert.ErrorIs(t, err, provisioning.ErrLocalIO)
	assert.Equal(t, -1, fixture.Log.Index(itesting.CallAttachThingPrincipal))
}

func TestProvision_StoresResult(t *testing.T) {
	t.Parallel()
	cfg := itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).WithThing("Sensor-1", "SensorPolicy").Build()
	fixture := itesting.NewProviderFixture()
	ctx, _ := itesting.NewProvisioningContext(t, cfg, fixture.Providers())

	require.NoError(t, NewProvisioner().Provision(ctx))

	require.NotNil(t, ctx.State.Identity)
	assert.Equal(t, "Sensor-1", ctx.State.Identity.ThingName)
	assert.Equal(t, "SensorPolicy", ctx.State.Identity.PolicyName)
}
