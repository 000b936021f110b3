package testing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/provisioning"
)

func TestCallLog_FailOn(t *testing.T) {
	t.Parallel()
	f := NewProviderFixture()
	boom := errors.New("boom")
	f.Log.FailOn(CallCreateDatastore, boom)
	ctx := context.Background()

	_, err := f.Analytics.CreateChannel(ctx, provisioning.ChannelSpec{Name: "c"})
	require.NoError(t, err)
	_, err = f.Analytics.CreateDatastore(ctx, provisioning.DatastoreSpec{Name: "d"})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{CallCreateChannel, CallCreateDatastore}, f.Log.Calls())
	assert.Equal(t, 1, f.Log.Index(CallCreateDatastore))
	assert.Equal(t, -1, f.Log.Index(CallCreateRole))
}

func TestProviderFixture_ARNs(t *testing.T) {
	t.Parallel()
	f := NewProviderFixture()
	ctx := context.Background()

	role, err := f.Roles.CreateRole(ctx, "IoTAnalyticsRuleRole", "/service-role/", "{}")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:role/service-role/IoTAnalyticsRuleRole", role.ARN)

	arn, err := f.Analytics.CreateChannel(ctx, provisioning.ChannelSpec{Name: "Chan"})
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iotanalytics:eu-central-1:123456789012:channel/Chan", arn)

	require.NoError(t, f.Buckets.EnsureBucket(ctx, "bucket"))
	f.Buckets.AssertCalled(t, "EnsureBucket", ctx, "bucket")
}

func TestRecordingObserver_SharesRecords(t *testing.T) {
	t.Parallel()
	root := NewRecordingObserver()
	child := root.WithFields(map[string]string{"run": "r1"})

	child.Event(provisioning.Event{Type: provisioning.EventPhaseStarted})
	root.Event(provisioning.Event{Type: provisioning.EventPhaseCompleted})

	assert.Len(t, root.Events(), 2)
	assert.Len(t, root.EventsOfType(provisioning.EventPhaseStarted), 1)
}

func TestConfigBuilder_Immutable(t *testing.T) {
	t.Parallel()
	base := NewConfigBuilder()
	changed := base.WithChannel("Other").WithRemoveAttributes("x")

	assert.Equal(t, "ESP32TrafficDataChannel", base.Build().Analytics.ChannelName)
	assert.Equal(t, "Other", changed.Build().Analytics.ChannelName)
	assert.Equal(t, []string{"x"}, changed.Build().Analytics.RemoveAttributes)
	assert.Equal(t, []string{"@version", "coordinates"}, base.Build().Analytics.RemoveAttributes)
}
