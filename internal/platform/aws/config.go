package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/imamik/iotflow/internal/provisioning"
)

// LoadConfig resolves credentials and region from the ambient environment.
// Non-empty region and profile override the environment. Retries are disabled.
func LoadConfig(ctx context.Context, region, profile string) (sdkaws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryer(func() sdkaws.Retryer { return sdkaws.NopRetryer{} }),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return sdkaws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// ResolveCallerIdentity returns the account of the current credentials and
// the configured region.
func ResolveCallerIdentity(ctx context.Context, api STSAPI, region string) (provisioning.CallerIdentity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return provisioning.CallerIdentity{}, fmt.Errorf("failed to resolve caller identity: %w", providerError("sts", "GetCallerIdentity", err))
	}
	return provisioning.CallerIdentity{
		Account: sdkaws.ToString(out.Account),
		Region:  region,
	}, nil
}
