package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResult_ToConfig(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		Region:        "eu-west-1",
		ThingName:     "ESP32Garage",
		CertsDir:      "firmware/certs",
		CreatePolicy:  true,
		ChannelName:   "GarageChannel",
		DatastoreName: "GarageStore",
		Schedule:      "rate(1 hour)",
		RetentionDays: "30",
		Topic:         "garage/data",
	}

	cfg := result.ToConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"identity.policyDocument grants access to all resources"}, cfg.Warnings())

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "ESP32Garage", cfg.Identity.ThingName)
	assert.Equal(t, "firmware/certs", cfg.Identity.CertsDir)
	assert.True(t, cfg.Identity.CreatePolicy)
	assert.Equal(t, DefaultThingPolicyDocument, cfg.Identity.PolicyDocument)
	assert.Equal(t, "GarageChannel", cfg.Analytics.ChannelName)
	assert.Equal(t, int32(30), cfg.Analytics.RetentionDays)
	assert.Contains(t, cfg.Analytics.DatasetQuery, "FROM GarageStore")
	assert.Contains(t, cfg.Rule.SQL, "FROM 'garage/data'")
}

func TestWizardValidators(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateThingName("ESP32DevKit-C"))
	assert.Error(t, validateThingName("bad name"))

	assert.NoError(t, validateAnalyticsInput("ESP32TrafficDataChannel"))
	assert.Error(t, validateAnalyticsInput("bad-name"))
	assert.Error(t, validateAnalyticsInput("__reserved"))

	assert.NoError(t, validateSchedule("cron(0 23 * * ? *)"))
	assert.Error(t, validateSchedule("daily"))

	assert.NoError(t, validateRetention("365"))
	assert.Error(t, validateRetention("0"))
	assert.Error(t, validateRetention("forever"))

	assert.Error(t, required("topic")("  "))
	assert.NoError(t, required("topic")("esp32/data"))
}
