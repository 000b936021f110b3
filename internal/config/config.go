package config

// Storage modes accepted for the channel and datastore.
const (
	StorageServiceManaged  = "service-managed"
	StorageCustomerManaged = "customer-managed"
)

// Config is the desired set of resources for one provisioning run.
type Config struct {
	AWS       AWSConfig       `yaml:"aws,omitempty"`
	Identity  IdentityConfig  `yaml:"identity"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Role      RoleConfig      `yaml:"role"`
	Rule      RuleConfig      `yaml:"rule"`
}

// AWSConfig overrides the ambient AWS environment.
// Empty values fall back to the SDK's default resolution chain.
type AWSConfig struct {
	Region  string `yaml:"region,omitempty"`
	Profile string `yaml:"profile,omitempty"`
}

// IdentityConfig describes the device identity.
type IdentityConfig struct {
	// ThingName is the IoT thing registered for the device.
	ThingName string `yaml:"thingName"`

	// PolicyName is the IoT policy attached to the issued certificate.
	PolicyName string `yaml:"policyName"`

	// CreatePolicy creates PolicyName from PolicyDocument before attaching it.
	// When false the policy must already exist.
	CreatePolicy bool `yaml:"createPolicy,omitempty"`

	// PolicyDocument is only used when CreatePolicy is set.
	PolicyDocument string `yaml:"policyDocument,omitempty"`

	// CertsDir receives the device certificate, private key and root CA.
	CertsDir string `yaml:"certsDir"`
}

// AnalyticsConfig describes the IoT Analytics resources.
type AnalyticsConfig struct {
	ChannelName   string `yaml:"channelName"`
	DatastoreName string `yaml:"datastoreName"`
	PipelineName  string `yaml:"pipelineName"`
	DatasetName   string `yaml:"datasetName"`

	// DatasetQuery is the SQL run by the dataset on every trigger.
	DatasetQuery string `yaml:"datasetQuery"`

	// Schedule is the dataset trigger, e.g. "cron(0 23 * * ? *)".
	Schedule string `yaml:"schedule"`

	// RetentionDays applies to both channel and datastore.
	RetentionDays int32 `yaml:"retentionDays"`

	// RemoveAttributes are dropped from every message by the pipeline.
	// At least one is required.
	RemoveAttributes []string `yaml:"removeAttributes,omitempty"`

	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects where channel and datastore data is kept.
type StorageConfig struct {
	Mode      string `yaml:"mode"`
	Bucket    string `yaml:"bucket,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
	RoleARN   string `yaml:"roleArn,omitempty"`
}

// CustomerManaged reports whether data lives in a caller-owned bucket.
func (s StorageConfig) CustomerManaged() bool {
	return s.Mode == StorageCustomerManaged
}

// RoleConfig describes the IAM role assumed by the rules engine.
type RoleConfig struct {
	RoleName   string `yaml:"roleName"`
	PolicyName string `yaml:"policyName"`
	Path       string `yaml:"path"`
}

// RuleConfig describes the topic rule routing device messages.
type RuleConfig struct {
	RuleName    string `yaml:"ruleName"`
	SQL         string `yaml:"sql"`
	SQLVersion  string `yaml:"sqlVersion"`
	Description string `yaml:"description,omitempty"`
}
