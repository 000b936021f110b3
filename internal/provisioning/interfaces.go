package provisioning

import "context"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Reaches returns the stage recorded once Provision succeeds.
	Reaches() Stage

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// IdentityService is the device-identity capability of the provider (AWS IoT).
type IdentityService interface {
	// CreateThing registers a named device. Fails with ErrNameCollision if it exists.
	CreateThing(ctx context.Context, name string) (*Thing, error)

	// CreateKeysAndCertificate issues a new key pair and certificate.
	CreateKeysAndCertificate(ctx context.Context, setAsActive bool) (*DeviceCredential, error)

	// AttachThingPrincipal binds a certificate to a thing.
	AttachThingPrincipal(ctx context.Context, thingName, principalARN string) error

	// CreatePolicy creates a device policy and returns its ARN.
	CreatePolicy(ctx context.Context, name, document string) (string, error)

	// AttachPolicy attaches a device policy to a certificate.
	AttachPolicy(ctx context.Context, policyName, targetARN string) error

	// DescribeDataEndpoint returns the account's ATS data endpoint host.
	DescribeDataEndpoint(ctx context.Context) (string, error)
}

// AnalyticsService is the analytics capability of the provider (AWS IoT Analytics).
// Each create call returns the ARN of the new resource.
type AnalyticsService interface {
	CreateChannel(ctx context.Context, spec ChannelSpec) (string, error)
	CreateDatastore(ctx context.Context, spec DatastoreSpec) (string, error)
	CreatePipeline(ctx context.Context, spec PipelineSpec) (string, error)
	CreateDataset(ctx context.Context, spec DatasetSpec) (string, error)
}

// RoleService is the role and policy administration capability (AWS IAM).
type RoleService interface {
	// CreateRole creates a role assumable according to trustPolicy.
	CreateRole(ctx context.Context, name, path, trustPolicy string) (*Role, error)

	// CreatePolicy creates a managed policy and returns its ARN.
	CreatePolicy(ctx context.Context, name, path, document string) (string, error)

	// AttachRolePolicy attaches a managed policy to a role.
	AttachRolePolicy(ctx context.Context, roleName, policyARN string) error
}

// RuleService is the rules-engine capability (AWS IoT topic rules).
type RuleService interface {
	CreateTopicRule(ctx context.Context, rule TopicRule) error
}

// BucketService ensures customer-managed storage buckets exist (Amazon S3).
type BucketService interface {
	EnsureBucket(ctx context.Context, name string) error
}

// Providers groups the provider capabilities a run talks to.
// Buckets may be nil when only service-managed storage is used.
type Providers struct {
	Identity  IdentityService
	Analytics AnalyticsService
	Roles     RoleService
	Rules     RuleService
	Buckets   BucketService
}
