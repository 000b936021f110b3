package analytics

import (
	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
)

const (
	phase = "analytics"

	// DatasetActionName is the name of the dataset's query action.
	DatasetActionName = "DataSetAction"
)

// Provisioner handles IoT Analytics provisioning (channel, datastore, pipeline, dataset).
type Provisioner struct{}

// NewProvisioner creates a new analytics provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Reaches implements the provisioning.Phase interface.
func (p *Provisioner) Reaches() provisioning.Stage {
	return provisioning.StageAnalyticsProvisioned
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	result, err := p.ProvisionAnalytics(ctx, SpecFromConfig(ctx.Config.Analytics))
	if err != nil {
		return err
	}
	ctx.State.Analytics = result
	return nil
}

// SpecFromConfig converts the analytics configuration into a request.
func SpecFromConfig(cfg config.AnalyticsConfig) provisioning.AnalyticsSpec {
	mode := provisioning.StorageServiceManaged
	if cfg.Storage.CustomerManaged() {
		mode = provisioning.StorageCustomerManaged
	}
	return provisioning.AnalyticsSpec{
		ChannelName:      cfg.ChannelName,
		DatastoreName:    cfg.DatastoreName,
		PipelineName:     cfg.PipelineName,
		DatasetName:      cfg.DatasetName,
		DatasetQuery:     cfg.DatasetQuery,
		Schedule:         cfg.Schedule,
		RetentionDays:    cfg.RetentionDays,
		RemoveAttributes: cfg.RemoveAttributes,
		Storage: provisioning.Storage{
			Mode:      mode,
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
			RoleARN:   cfg.Storage.RoleARN,
		},
	}
}

// ProvisionAnalytics creates the channel, datastore, pipeline and dataset in
// that order and stops at the first failure.
func (p *Provisioner) ProvisionAnalytics(ctx *provisioning.Context, spec provisioning.AnalyticsSpec) (*provisioning.AnalyticsResult, error) {
	svc := ctx.Providers.Analytics
	retention := provisioning.Retention{Days: spec.RetentionDays}
	result := &provisioning.AnalyticsResult{
		ChannelName:   spec.ChannelName,
		DatastoreName: spec.DatastoreName,
		PipelineName:  spec.PipelineName,
		DatasetName:   spec.DatasetName,
	}

	activities := BuildActivityChain(spec.ChannelName, spec.DatastoreName, spec.RemoveAttributes)
	if err := ValidateActivityChain(activities); err != nil {
		return nil, &provisioning.StepError{Phase: phase, Step: "pipeline", Resource: spec.PipelineName, Err: err}
	}

	if spec.Storage.Mode == provisioning.StorageCustomerManaged {
		if err := p.ensureBucket(ctx, spec.Storage); err != nil {
			return nil, err
		}
	}

	// 1. Channel
	if err := ctx.Step(phase, "channel", spec.ChannelName, func() (_ string, err error) {
		result.ChannelARN, err = svc.CreateChannel(ctx, provisioning.ChannelSpec{
			Name:      spec.ChannelName,
			Storage:   withPrefix(spec.Storage, "channel"),
			Retention: retention,
		})
		return result.ChannelARN, err
	}); err != nil {
		return nil, err
	}

	// 2. Datastore
	if err := ctx.Step(phase, "datastore", spec.DatastoreName, func() (_ string, err error) {
		result.DatastoreARN, err = svc.CreateDatastore(ctx, provisioning.DatastoreSpec{
			Name:      spec.DatastoreName,
			Storage:   withPrefix(spec.Storage, "datastore"),
			Retention: retention,
			Format:    provisioning.FileFormatJSON,
		})
		return result.DatastoreARN, err
	}); err != nil {
		return nil, err
	}

	// 3. Pipeline
	ctx.Observer.Printf("[%s] Pipeline %s: %s", phase, spec.PipelineName, chainSummary(activities))
	if err := ctx.Step(phase, "pipeline", spec.PipelineName, func() (_ string, err error) {
		result.PipelineARN, err = svc.CreatePipeline(ctx, provisioning.PipelineSpec{
			Name:       spec.PipelineName,
			Activities: activities,
		})
		return result.PipelineARN, err
	}); err != nil {
		return nil, err
	}

	// 4. Dataset
	if err := ctx.Step(phase, "dataset", spec.DatasetName, func() (_ string, err error) {
		result.DatasetARN, err = svc.CreateDataset(ctx, provisioning.DatasetSpec{
			Name:               spec.DatasetName,
			ActionName:         DatasetActionName,
			Query:              spec.DatasetQuery,
			ScheduleExpression: spec.Schedule,
		})
		return result.DatasetARN, err
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Provisioner) ensureBucket(ctx *provisioning.Context, storage provisioning.Storage) error {
	if ctx.Providers.Buckets == nil {
		return &provisioning.StepError{
			Phase:    phase,
			Step:     "bucket",
			Resource: storage.Bucket,
			Err:      provisioning.ConfigDefect("customer-managed storage requires a bucket provider"),
		}
	}
	return ctx.Step(phase, "bucket", storage.Bucket, func() (string, error) {
		return storage.Bucket, ctx.Providers.Buckets.EnsureBucket(ctx, storage.Bucket)
	})
}

// withPrefix keeps channel and datastore objects apart in a shared bucket.
func withPrefix(storage provisioning.Storage, kind string) provisioning.Storage {
	if storage.Mode != provisioning.StorageCustomerManaged {
		return provisioning.Storage{Mode: provisioning.StorageServiceManaged}
	}
	prefix := storage.KeyPrefix
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	storage.KeyPrefix = prefix + kind + "/"
	return storage
}
