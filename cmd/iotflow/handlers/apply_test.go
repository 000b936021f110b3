package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
	itesting "github.com/imamik/iotflow/internal/testing"
)

// saveAndRestoreFactories saves and restores all factory functions.
func saveAndRestoreFactories(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	origLoadAWSConfig := loadAWSConfig
	origResolveCallerIdentity := resolveCallerIdentity
	origNewProviders := newProviders
	origNewReconciler := newReconciler
	origLoadConfigFile := loadConfigFile
	origFindConfigFile := findConfigFile
	origOut := out
	origLogOut := logOut
	origIsInteractiveTTY := isInteractiveTTY

	t.Cleanup(func() {
		loadAWSConfig = origLoadAWSConfig
		resolveCallerIdentity = origResolveCallerIdentity
		newProviders = origNewProviders
		newReconciler = origNewReconciler
		loadConfigFile = origLoadConfigFile
		findConfigFile = origFindConfigFile
		out = origOut
		logOut = origLogOut
		isInteractiveTTY = origIsInteractiveTTY
	})

	var stdout, stderr bytes.Buffer
	out = &stdout
	logOut = &stderr
	isInteractiveTTY = func() bool { return false }
	return &stdout, &stderr
}

// stubAWS replaces the AWS bootstrap with the fixture target and providers.
func stubAWS(t *testing.T, fixture *itesting.ProviderFixture) *string {
	t.Helper()
	var region string
	loadAWSConfig = func(_ context.Context, r, _ string) (sdkaws.Config, error) {
		region = r
		return sdkaws.Config{Region: itesting.Target.Region}, nil
	}
	resolveCallerIdentity = func(context.Context, sdkaws.Config) (provisioning.CallerIdentity, error) {
		return itesting.Target, nil
	}
	newProviders = func(sdkaws.Config) provisioning.Providers {
		return fixture.Providers()
	}
	return &region
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(cfg, path))
	return path
}

func TestApply_Success(t *testing.T) {
	stdout, stderr := saveAndRestoreFactories(t)
	fixture := itesting.NewProviderFixture()
	region := stubAWS(t, fixture)

	certsDir := filepath.Join(t.TempDir(), "certs")
	cfg := itesting.NewConfigBuilder().WithCertsDir(certsDir).Build()
	cfg.AWS.Region = "eu-central-1"
	path := writeTestConfig(t, cfg)
	metricsFile := filepath.Join(t.TempDir(), "iotflow.prom")

	err := Apply(context.Background(), ApplyOptions{ConfigPath: path, LogFormat: LogFormatJSON, MetricsFile: metricsFile})
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", *region)
	assert.Contains(t, stdout.String(), "RULE_PROVISIONED")
	assert.Contains(t, stdout.String(), "arn:aws:iotanalytics:eu-central-1:123456789012:channel/ESP32TrafficDataChannel")
	assert.Contains(t, stdout.String(), itesting.DataEndpoint+":8883")
	assert.Contains(t, stderr.String(), `"event":"phase.completed"`)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "iotflow_provisioning_steps_total")

	cert, err := os.ReadFile(filepath.Join(certsDir, "certificate.pem.crt"))
	require.NoError(t, err)
	assert.Equal(t, "CERTDATA\n", string(cert))
}

func TestApply_FailureReportsStep(t *testing.T) {
	stdout, _ := saveAndRestoreFactories(t)
	fixture := itesting.NewProviderFixture()
	fixture.Log.FailOn(itesting.CallCreateRole, itesting.Collision("iam", "CreateRole"))
	stubAWS(t, fixture)

	cfg := itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).Build()
	path := writeTestConfig(t, cfg)

	err := Apply(context.Background(), ApplyOptions{ConfigPath: path, LogFormat: LogFormatJSON})
	require.Error(t, err)

	assert.ErrorIs(t, err, provisioning.ErrNameCollision)
	assert.Contains(t, err.Error(), "provisioning failed")
	assert.Contains(t, stdout.String(), "FAILED at role/role")
	assert.Contains(t, stdout.String(), "Resources created before the failure were kept.")
	assert.Equal(t, -1, fixture.Log.Index(itesting.CallCreateTopicRule))
}

func TestApply_CallerIdentityError(t *testing.T) {
	saveAndRestoreFactories(t)
	fixture := itesting.NewProviderFixture()
	stubAWS(t, fixture)
	resolveCallerIdentity = func(context.Context, sdkaws.Config) (provisioning.CallerIdentity, error) {
		return provisioning.CallerIdentity{}, errors.New("no credentials")
	}

	path := writeTestConfig(t, itesting.NewConfigBuilder().WithCertsDir(t.TempDir()).Build())

	err := Apply(context.Background(), ApplyOptions{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Empty(t, fixture.Log.Calls())
}

func TestApply_InvalidLogFormat(t *testing.T) {
	saveAndRestoreFactories(t)
	fixture := itesting.NewProviderFixture()
	stubAWS(t, fixture)
	path := writeTestConfig(t, config.Default())

	err := Apply(context.Background(), ApplyOptions{ConfigPath: path, LogFormat: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestLoadConfig_EmptyPath_NoDefaultFile(t *testing.T) {
	saveAndRestoreFactories(t)
	findConfigFile = func() (string, error) {
		return "", errors.New("config file iotflow.yaml not found")
	}

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iotflow init")
}

func TestLoadConfig_EmptyPath_UsesFoundFile(t *testing.T) {
	saveAndRestoreFactories(t)
	path := writeTestConfig(t, config.Default())
	findConfigFile = func() (string, error) { return path, nil }

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultThingName, cfg.Identity.ThingName)
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	saveAndRestoreFactories(t)

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
