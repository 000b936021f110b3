package role

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrustPolicy(t *testing.T) {
	t.Parallel()

	doc, err := TrustPolicy()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": "iot.amazonaws.com"},
			"Action": "sts:AssumeRole"
		}]
	}`, doc)
}

func TestChannelWritePolicy(t *testing.T) {
	t.Parallel()
	resource := "arn:aws:iotanalytics:eu-central-1:123456789012:channel/ESP32TrafficDataChannel"

	doc, err := ChannelWritePolicy(resource)
	require.NoError(t, err)

	var parsed PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	require.Len(t, parsed.Statement, 1)
	assert.Equal(t, "iotanalytics:BatchPutMessage", parsed.Statement[0].Action)
	assert.Equal(t, resource, parsed.Statement[0].Resource)
	assert.Nil(t, parsed.Statement[0].Principal)
}
