package role

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
	itesting "github.com/imamik/iotflow/internal/testing"
	"github.com/imamik/iotflow/internal/util/naming"
)

const channelResource = "arn:aws:iotanalytics:eu-central-1:123456789012:channel/ESP32TrafficDataChannel"

func TestProvisioner_Name(t *testing.T) {
	t.Parallel()
	p := NewProvisioner()
	assert.Equal(t, "role", p.Name())
	assert.Equal(t, provisioning.StageRoleProvisioned, p.Reaches())
}

func TestChannelResource(t *testing.T) {
	t.Parallel()

	got, err := ChannelResource(itesting.Target, "ESP32TrafficDataChannel")
	require.NoError(t, err)
	assert.Equal(t, channelResource, got)

	_, err = ChannelResource(itesting.Target, "*")
	assert.ErrorIs(t, err, provisioning.ErrConfigDefect)
	assert.ErrorIs(t, err, naming.ErrInvalidLocator)
}

func TestProvisionExecutionRole_Success(t *testing.T) {
	t.Parallel()
	fixture := itesting.NewProviderFixture()

	var rolePath, trust, policyPath, document, attachedRole, attachedPolicy string
	fixture.Roles.CreateRoleFunc = func(_ context.Context, name, path, trustPolicy string) (*provisioning.Role, error) {
		rolePath, trust = path, trustPolicy
		return &provisioning.Role{Name: name, ID: "AROA123", ARN: "arn:aws:iam::123456789012:role/service-role/" + name}, nil
	}
	fixture.Roles.CreatePolicyFunc = func(_ context.Context, name, path, doc string) (string, error) {
		policyPath, document = path, doc
		return "arn:aws:iam::123456789012:policy/service-role/" + name, nil
	}
	fixture.Roles.AttachRolePolicyFunc = func(_ context.Context, roleName, policyARN string) error {
		attachedRole, attachedPolicy = roleName, policyARN
		return nil
	}
	ctx, _ := itesting.NewProvisioningContext(t, config.Default(), fixture.Providers())

	result, err := NewProvisioner().ProvisionExecutionRole(ctx, "IoTAnalyticsRuleRole", "IoTAnalyticsRulePolicy", channelResource)
	require.NoError(t, err)

	assert.Equal(t, []string{
		itesting.CallCreateRole,
		itesting.CallCreateRolePolicy,
		itesting.CallAttachRolePolicy,
	}, fixture.Log.Calls())

	assert.Equal(t, "/service-role/", rolePath)
	assert.Equal(t, "/service-role/", policyPath)
	assert.Contains(t, trust, `"Service":"iot.amazonaws.com"`)

	var parsed PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(document), &parsed))
	assert.Equal(t, channelResource, parsed.Statement[0].Resource)

	assert.Equal(t, "IoTAnalyticsRuleRole", attachedRole)
	assert.Equal(t, "arn:aws:iam::123456789012:policy/service-role/IoTAnalyticsRulePolicy", attachedPolicy)

	assert.Equal(t, &provisioning.RoleResult{
		RoleName:        "IoTAnalyticsRuleRole",
		RoleID:          "AROA123",
		RoleARN:         "arn:aws:iam::123456789012:role/service-role/IoTAnalyticsRuleRole",
		PolicyARN:       "arn:aws:iam::123456789012:policy/service-role/IoTAnalyticsRulePolicy",
		ChannelName:     "ESP32TrafficDataChannel",
		ChannelResource: channelResource,
	}, result)
}

func TestProvisionExecutionRole_RejectsBroadResource(t *testing.T) {
	t.Parallel()
	fixture := itesting.NewProviderFixture()
	ctx, _ := itesting.NewProvisioningContext(t, config.Default(), fixture.Providers())

	for _, resource := range []string{
		"",
		"*",
		"arn:aws:iotanalytics:eu-central-1:123456789012:channel/*",
		"arn:aws:iotanalytics:eu-central-1:123456789012:datastore/ESP32TrafficDataStore",
		"ESP32TrafficDataChannel",
	} {
		_, err := NewProvisioner().ProvisionExecutionRole(ctx, "IoTAnalyticsRuleRole", "IoTAnalyticsRulePolicy", resource)
		assert.ErrorIs(t, err, provisioning.ErrConfigDefect, resource)
	}
	assert.Empty(t, fixture.Log.Calls())
}

func TestProvisionExecutionRole_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		failOn   string
		wantStep string
		wantLen  int
	}{
		{itesting.CallCreateRole, "role", 1},
		{itesting.CallCreateRolePolicy, "policy", 2},
		{itesting.CallAttachRolePolicy, "attach-policy", 3},
	}

	for _, tt := range tests {
		t.Run(tt.wantStep, func(t *testing.T) {
			t.Parallel()
			fixture := itesting.NewProviderFixture()
			fixture.Log.FailOn(tt.failOn, itesting.Rejected("iam", tt.failOn, "MalformedPolicyDocument"))
			ctx, _ := itesting.NewProvisioningContext(t, config.Default(), fixture.Providers())

			_, err := NewProvisioner().ProvisionExecutionRole(ctx, "IoTAnalyticsRuleRole", "IoTAnalyticsRulePolicy", channelResource)

			var stepErr *provisioning.StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.Len(t, fixture.Log.Calls(), tt.wantLen)
		})
	}
}

func TestProvision_UsesAnalyticsChannel(t *testing.T) {
	t.Parallel()
	fixture := itesting.NewProviderFixture()
	var document string
	fixture.Roles.CreatePolicyFunc = func(_ context.Context, _, _, doc string) (string, error) {
		document = doc
		return "arn:policy", nil
	}
	ctx, _ := itesting.NewProvisioningContext(t, config.Default(), fixture.Providers())
	ctx.State.Analytics = &provisioning.AnalyticsResult{ChannelName: "ESP32TrafficDataChannel"}

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Contains(t, document, `"Resource":"`+channelResource+`"`)
	require.NotNil(t, ctx.State.Role)
	assert.Equal(t, "ESP32TrafficDataChannel", ctx.State.Role.ChannelName)
	assert.Equal(t, channelResource, ctx.State.Role.ChannelResource)
}

func TestProvision_RequiresAnalytics(t *testing.T) {
	t.Parallel()
	fixture := itesting.NewProviderFixture()
	ctx, _ := itesting.NewProvisioningContext(t, config.Default(), fixture.Providers())

	err := NewProvisioner().Provision(ctx)

	assert.ErrorIs(t, err, provisioning.ErrConfigDefect)
	assert.Empty(t, fixture.Log.Calls())
}
