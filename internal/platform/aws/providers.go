package aws

import (
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/aws/aws-sdk-go-v2/service/iotanalytics"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/imamik/iotflow/internal/platform/s3"
	"github.com/imamik/iotflow/internal/provisioning"
)

// NewProviders creates all provider capabilities from one AWS configuration.
func NewProviders(cfg sdkaws.Config) provisioning.Providers {
	iotClient := NewIoTClient(iot.NewFromConfig(cfg))
	return provisioning.Providers{
		Identity:  iotClient,
		Analytics: NewAnalyticsClient(iotanalytics.NewFromConfig(cfg)),
		Roles:     NewIAMClient(iam.NewFromConfig(cfg)),
		Rules:     iotClient,
		Buckets:   s3.NewFromConfig(cfg),
	}
}

// NewSTSClient creates the client used to resolve the caller identity.
func NewSTSClient(cfg sdkaws.Config) STSAPI {
	return sts.NewFromConfig(cfg)
}
