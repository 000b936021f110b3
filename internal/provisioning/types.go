package provisioning

// CallerIdentity is the ambient AWS account and region a run provisions into.
// It is resolved once at startup.
type CallerIdentity struct {
	Account string
	Region  string
}

// Thing is a registered device identity.
type Thing struct {
	Name string
	ARN  string
	ID   string
}

// DeviceCredential is an activated certificate and its key pair.
type DeviceCredential struct {
	CertificateID  string
	CertificateARN string
	CertificatePEM string
	PrivateKeyPEM  string
	PublicKeyPEM   string
}

// StorageMode selects who owns the bucket behind a channel or datastore.
type StorageMode string

const (
	StorageServiceManaged  StorageMode = "service-managed"
	StorageCustomerManaged StorageMode = "customer-managed"
)

// Storage describes where a channel or datastore keeps its data.
// Bucket, KeyPrefix and RoleARN are only used in customer-managed mode.
type Storage struct {
	Mode      StorageMode
	Bucket    string
	KeyPrefix string
	RoleARN   string
}

// Retention is how long a channel or datastore keeps data.
type Retention struct {
	Unlimited bool
	Days      int32
}

// FileFormat is the record format of a datastore.
type FileFormat string

// FileFormatJSON stores records as JSON text.
const FileFormatJSON FileFormat = "json"

// ChannelSpec is the request for an ingestion channel.
type ChannelSpec struct {
	Name      string
	Storage   Storage
	Retention Retention
}

// DatastoreSpec is the request for a datastore.
type DatastoreSpec struct {
	Name      string
	Storage   Storage
	Retention Retention
	Format    FileFormat
}

// ActivityKind identifies a pipeline activity type.
type ActivityKind string

const (
	ActivityChannel          ActivityKind = "channel"
	ActivityRemoveAttributes ActivityKind = "removeAttributes"
	ActivityDatastore        ActivityKind = "datastore"
)

// Activity is one node of a pipeline's activity chain.
type Activity struct {
	Kind ActivityKind
	Name string
	Next string

	ChannelName   string   // ActivityChannel
	Attributes    []string // ActivityRemoveAttributes
	DatastoreName string   // ActivityDatastore
}

// PipelineSpec is the request for a transformation pipeline.
type PipelineSpec struct {
	Name       string
	Activities []Activity
}

// DatasetSpec is the request for a scheduled SQL dataset.
type DatasetSpec struct {
	Name               string
	ActionName         string
	Query              string
	ScheduleExpression string
}

// Role is a created IAM role.
type Role struct {
	Name string
	ID   string
	ARN  string
}

// TopicRule is the request for an IoT topic rule with a single
// IoT Analytics action.
type TopicRule struct {
	Name        string
	Description string
	SQL         string
	SQLVersion  string
	ChannelName string
	RoleARN     string
	BatchMode   bool
	Disabled    bool
}

// AnalyticsSpec names the analytics resources of a run and how they are stored.
type AnalyticsSpec struct {
	ChannelName      string
	DatastoreName    string
	PipelineName     string
	DatasetName      string
	DatasetQuery     string
	Schedule         string
	RetentionDays    int32
	RemoveAttributes []string
	Storage          Storage
}
