package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotanalytics"
	"github.com/aws/aws-sdk-go-v2/service/iotanalytics/types"

	"github.com/imamik/iotflow/internal/provisioning"
)

// AnalyticsAPI is the subset of the AWS IoT Analytics client used here.
type AnalyticsAPI interface {
	CreateChannel(ctx context.Context, in *iotanalytics.CreateChannelInput, optFns ...func(*iotanalytics.Options)) (*iotanalytics.CreateChannelOutput, error)
	CreateDatastore(ctx context.Context, in *iotanalytics.CreateDatastoreInput, optFns ...func(*iotanalytics.Options)) (*iotanalytics.CreateDatastoreOutput, error)
	CreatePipeline(ctx context.Context, in *iotanalytics.CreatePipelineInput, optFns ...func(*iotanalytics.Options)) (*iotanalytics.CreatePipelineOutput, error)
	CreateDataset(ctx context.Context, in *iotanalytics.CreateDatasetInput, optFns ...func(*iotanalytics.Options)) (*iotanalytics.CreateDatasetOutput, error)
}

// AnalyticsClient implements provisioning.AnalyticsService on AWS IoT Analytics.
type AnalyticsClient struct {
	api AnalyticsAPI
}

// NewAnalyticsClient wraps an AWS IoT Analytics API client.
func NewAnalyticsClient(api AnalyticsAPI) *AnalyticsClient {
	return &AnalyticsClient{api: api}
}

// CreateChannel creates a channel and returns its ARN.
func (c *AnalyticsClient) CreateChannel(ctx context.Context, spec provisioning.ChannelSpec) (string, error) {
	storage := &types.ChannelStorage{ServiceManagedS3: &types.ServiceManagedChannelS3Storage{}}
	if spec.Storage.Mode == provisioning.StorageCustomerManaged {
		storage = &types.ChannelStorage{CustomerManagedS3: &types.CustomerManagedChannelS3Storage{
			Bucket:    sdkaws.String(spec.Storage.Bucket),
			RoleArn:   sdkaws.String(spec.Storage.RoleARN),
			KeyPrefix: optionalString(spec.Storage.KeyPrefix),
		}}
	}

	out, err := c.api.CreateChannel(ctx, &iotanalytics.CreateChannelInput{
		ChannelName:     sdkaws.String(spec.Name),
		ChannelStorage:  storage,
		RetentionPeriod: retentionPeriod(spec.Retention),
	})
	if err != nil {
		return "", providerError("iotanalytics", "CreateChannel", err)
	}
	return sdkaws.ToString(out.ChannelArn), nil
}

// CreateDatastore creates a datastore and returns its ARN.
func (c *AnalyticsClient) CreateDatastore(ctx context.Context, spec provisioning.DatastoreSpec) (string, error) {
	var storage types.DatastoreStorage = &types.DatastoreStorageMemberServiceManagedS3{
		Value: types.ServiceManagedDatastoreS3Storage{},
	}
	if spec.Storage.Mode == provisioning.StorageCustomerManaged {
		storage = &types.DatastoreStorageMemberCustomerManagedS3{
			Value: types.CustomerManagedDatastoreS3Storage{
				Bucket:    sdkaws.String(spec.Storage.Bucket),
				RoleArn:   sdkaws.String(spec.Storage.RoleARN),
				KeyPrefix: optionalString(spec.Storage.KeyPrefix),
			},
		}
	}

	format, err := fileFormat(spec.Format)
	if err != nil {
		return "", err
	}

	out, err := c.api.CreateDatastore(ctx, &iotanalytics.CreateDatastoreInput{
		DatastoreName:           sdkaws.String(spec.Name),
		DatastoreStorage:        storage,
		RetentionPeriod:         retentionPeriod(spec.Retention),
		FileFormatConfiguration: format,
	})
	if err != nil {
		return "", providerError("iotanalytics", "CreateDatastore", err)
	}
	return sdkaws.ToString(out.DatastoreArn), nil
}

// CreatePipeline creates a pipeline and returns its ARN. Each activity is
// sent as its own list element.
func (c *AnalyticsClient) CreatePipeline(ctx context.Context, spec provisioning.PipelineSpec) (string, error) {
	activities := make([]types.PipelineActivity, 0, len(spec.Activities))
	for _, a := range spec.Activities {
		activity, err := pipelineActivity(a)
		if err != nil {
			return "", err
		}
		activities = append(activities, activity)
	}

	out, err := c.api.CreatePipeline(ctx, &iotanalytics.CreatePipelineInput{
		PipelineName:       sdkaws.String(spec.Name),
		PipelineActivities: activities,
	})
	if err != nil {
		return "", providerError("iotanalytics", "CreatePipeline", err)
	}
	return sdkaws.ToString(out.PipelineArn), nil
}

// CreateDataset creates a SQL dataset with a schedule trigger and returns its ARN.
func (c *AnalyticsClient) CreateDataset(ctx context.Context, spec provisioning.DatasetSpec) (string, error) {
	out, err := c.api.CreateDataset(ctx, &iotanalytics.CreateDatasetInput{
		DatasetName: sdkaws.String(spec.Name),
		Actions: []types.DatasetAction{{
			ActionName: sdkaws.String(spec.ActionName),
			QueryAction: &types.SqlQueryDatasetAction{
				SqlQuery: sdkaws.String(spec.Query),
			},
		}},
		Triggers: []types.DatasetTrigger{{
			Schedule: &types.Schedule{Expression: sdkaws.String(spec.ScheduleExpression)},
		}},
	})
	if err != nil {
		return "", providerError("iotanalytics", "CreateDataset", err)
	}
	return sdkaws.ToString(out.DatasetArn), nil
}

func pipelineActivity(a provisioning.Activity) (types.PipelineActivity, error) {
	switch a.Kind {
	case provisioning.ActivityChannel:
		return types.PipelineActivity{Channel: &types.ChannelActivity{
			Name:        sdkaws.String(a.Name),
			ChannelName: sdkaws.String(a.ChannelName),
			Next:        optionalString(a.Next),
		}}, nil
	case provisioning.ActivityRemoveAttributes:
		return types.PipelineActivity{RemoveAttributes: &types.RemoveAttributesActivity{
			Name:       sdkaws.String(a.Name),
			Attributes: a.Attributes,
			Next:       optionalString(a.Next),
		}}, nil
	case provisioning.ActivityDatastore:
		return types.PipelineActivity{Datastore: &types.DatastoreActivity{
			Name:          sdkaws.String(a.Name),
			DatastoreName: sdkaws.String(a.DatastoreName),
		}}, nil
	default:
		return types.PipelineActivity{}, provisioning.ConfigDefect("unsupported pipeline activity kind %q", a.Kind)
	}
}

func retentionPeriod(r provisioning.Retention) *types.RetentionPeriod {
	if r.Unlimited {
		return &types.RetentionPeriod{Unlimited: true}
	}
	return &types.RetentionPeriod{NumberOfDays: sdkaws.Int32(r.Days)}
}

func fileFormat(f provisioning.FileFormat) (*types.FileFormatConfiguration, error) {
	switch f {
	case provisioning.FileFormatJSON, "":
		return &types.FileFormatConfiguration{JsonConfiguration: &types.JsonConfiguration{}}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported datastore file format %q", provisioning.ErrConfigDefect, f)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return sdkaws.String(s)
}
