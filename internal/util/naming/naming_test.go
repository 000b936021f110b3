package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelARN(t *testing.T) {
	t.Parallel()

	got, err := ChannelARN("eu-central-1", "123456789012", "ESP32TrafficDataChannel")

	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iotanalytics:eu-central-1:123456789012:channel/ESP32TrafficDataChannel", got)
}

func TestChannelARN_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		region  string
		account string
		channel string
	}{
		{"empty region", "", "123456789012", "chan"},
		{"bad region", "EU_CENTRAL", "123456789012", "chan"},
		{"short account", "eu-central-1", "1234", "chan"},
		{"wildcard account", "eu-central-1", "*", "chan"},
		{"empty channel", "eu-central-1", "123456789012", ""},
		{"wildcard channel", "eu-central-1", "123456789012", "*"},
		{"path in channel", "eu-central-1", "123456789012", "chan/extra"},
		{"colon in channel", "eu-central-1", "123456789012", "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ChannelARN(tt.region, tt.account, tt.channel)
			assert.ErrorIs(t, err, ErrInvalidLocator)
		})
	}
}

func TestTopicRuleARN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "arn:aws:iot:us-east-1:123456789012:rule/ESP32IoTAnalyticsRule",
		TopicRuleARN("us-east-1", "123456789012", "ESP32IoTAnalyticsRule"))
}

func TestChannelFromARN(t *testing.T) {
	t.Parallel()

	got, err := ChannelFromARN("arn:aws:iotanalytics:eu-central-1:123456789012:channel/ESP32TrafficDataChannel")

	require.NoError(t, err)
	assert.Equal(t, "ESP32TrafficDataChannel", got)

	for _, arn := range []string{
		"",
		"*",
		"arn:aws:iotanalytics:eu-central-1:123456789012:channel/*",
		"arn:aws:iotanalytics:eu-central-1:123456789012:datastore/Store",
		"arn:aws:iot:eu-central-1:123456789012:channel/Chan",
		"arn:aws-cn:iotanalytics:eu-central-1:123456789012:channel/Chan",
		"arn:aws:iotanalytics:eu-central-1:123456789012:channel/a/b",
	} {
		_, err := ChannelFromARN(arn)
		assert.ErrorIs(t, err, ErrInvalidLocator, arn)
	}
}
