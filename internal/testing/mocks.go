package testing

import (
	"context"
	"slices"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/iotflow/internal/provisioning"
)

// Provider calls recorded in a CallLog.
const (
	CallCreateThing              = "iot:CreateThing"
	CallCreateKeysAndCertificate = "iot:CreateKeysAndCertificate"
	CallAttachThingPrincipal     = "iot:AttachThingPrincipal"
	CallCreateThingPolicy        = "iot:CreatePolicy"
	CallAttachPolicy             = "iot:AttachPolicy"
	CallDescribeEndpoint         = "iot:DescribeEndpoint"
	CallCreateTopicRule          = "iot:CreateTopicRule"

	CallCreateChannel   = "iotanalytics:CreateChannel"
	CallCreateDatastore = "iotanalytics:CreateDatastore"
	CallCreatePipeline  = "iotanalytics:CreatePipeline"
	CallCreateDataset   = "iotanalytics:CreateDataset"

	CallCreateRole       = "iam:CreateRole"
	CallCreateRolePolicy = "iam:CreatePolicy"
	CallAttachRolePolicy = "iam:AttachRolePolicy"

	CallEnsureBucket = "s3:EnsureBucket"
)

// CallLog records provider calls in the order they were made and can
// inject a failure into a named call.
type CallLog struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

// NewCallLog creates an empty call log.
func NewCallLog() *CallLog {
	return &CallLog{fail: make(map[string]error)}
}

// FailOn makes every later call named call return err.
func (l *CallLog) FailOn(call string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[call] = err
}

// Calls returns the recorded calls in order.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

// Index returns the position of the first call named call, or -1.
func (l *CallLog) Index(call string) int {
	return slices.Index(l.Calls(), call)
}

func (l *CallLog) record(call string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
	return l.fail[call]
}

// MockIdentity is a mock implementation of provisioning.IdentityService.
type MockIdentity struct {
	Log *CallLog

	CreateThingFunc              func(ctx context.Context, name string) (*provisioning.Thing, error)
	CreateKeysAndCertificateFunc func(ctx context.Context, setAsActive bool) (*provisioning.DeviceCredential, error)
	AttachThingPrincipalFunc     func(ctx context.Context, thingName, principalARN string) error
	CreatePolicyFunc             func(ctx context.Context, name, document string) (string, error)
	AttachPolicyFunc             func(ctx context.Context, policyName, targetARN string) error
	DescribeDataEndpointFunc     func(ctx context.Context) (string, error)
}

func (m *MockIdentity) CreateThing(ctx context.Context, name string) (*provisioning.Thing, error) {
	if err := m.Log.record(CallCreateThing); err != nil {
		return nil, err
	}
	if m.CreateThingFunc != nil {
		return m.CreateThingFunc(ctx, name)
	}
	return &provisioning.Thing{Name: name}, nil
}

func (m *MockIdentity) CreateKeysAndCertificate(ctx context.Context, setAsActive bool) (*provisioning.DeviceCredential, error) {
	if err := m.Log.record(CallCreateKeysAndCertificate); err != nil {
		return nil, err
	}
	if m.CreateKeysAndCertificateFunc != nil {
		return m.CreateKeysAndCertificateFunc(ctx, setAsActive)
	}
	return &provisioning.DeviceCredential{}, nil
}

func (m *MockIdentity) AttachThingPrincipal(ctx context.Context, thingName, principalARN string) error {
	if err := m.Log.record(CallAttachThingPrincipal); err != nil {
		return err
	}
	if m.AttachThingPrincipalFunc != nil {
		return m.AttachThingPrincipalFunc(ctx, thingName, principalARN)
	}
	return nil
}

func (m *MockIdentity) CreatePolicy(ctx context.Context, name, document string) (string, error) {
	if err := m.Log.record(CallCreateThingPolicy); err != nil {
		return "", err
	}
	if m.CreatePolicyFunc != nil {
		return m.CreatePolicyFunc(ctx, name, document)
	}
	return "", nil
}

func (m *MockIdentity) AttachPolicy(ctx context.Context, policyName, targetARN string) error {
	if err := m.Log.record(CallAttachPolicy); err != nil {
		return err
	}
	if m.AttachPolicyFunc != nil {
		return m.AttachPolicyFunc(ctx, policyName, targetARN)
	}
	return nil
}

func (m *MockIdentity) DescribeDataEndpoint(ctx context.Context) (string, error) {
	if err := m.Log.record(CallDescribeEndpoint); err != nil {
		return "", err
	}
	if m.DescribeDataEndpointFunc != nil {
		return m.DescribeDataEndpointFunc(ctx)
	}
	return "", nil
}

// MockAnalytics is a mock implementation of provisioning.AnalyticsService.
type MockAnalytics struct {
	Log *CallLog

	CreateChannelFunc   func(ctx context.Context, spec provisioning.ChannelSpec) (string, error)
	CreateDatastoreFunc func(ctx context.Context, spec provisioning.DatastoreSpec) (string, error)
	CreatePipelineFunc  func(ctx context.Context, spec provisioning.PipelineSpec) (string, error)
	CreateDatasetFunc   func(ctx context.Context, spec provisioning.DatasetSpec) (string, error)
}

func (m *MockAnalytics) CreateChannel(ctx context.Context, spec provisioning.ChannelSpec) (string, error) {
	if err := m.Log.record(CallCreateChannel); err != nil {
		return "", err
	}
	if m.CreateChannelFunc != nil {
		return m.CreateChannelFunc(ctx, spec)
	}
	return "", nil
}

func (m *MockAnalytics) CreateDatastore(ctx context.Context, spec provisioning.DatastoreSpec) (string, error) {
	if err := m.Log.record(CallCreateDatastore); err != nil {
		return "", err
	}
	if m.CreateDatastoreFunc != nil {
		return m.CreateDatastoreFunc(ctx, spec)
	}
	return "", nil
}

func (m *MockAnalytics) CreatePipeline(ctx context.Context, spec provisioning.PipelineSpec) (string, error) {
	if err := m.Log.record(CallCreatePipeline); err != nil {
		return "", err
	}
	if m.CreatePipelineFunc != nil {
		return m.CreatePipelineFunc(ctx, spec)
	}
	return "", nil
}

func (m *MockAnalytics) CreateDataset(ctx context.Context, spec provisioning.DatasetSpec) (string, error) {
	if err := m.Log.record(CallCreateDataset); err != nil {
		return "", err
	}
	if m.CreateDatasetFunc != nil {
		return m.CreateDatasetFunc(ctx, spec)
	}
	return "", nil
}

// MockRoles is a mock implementation of provisioning.RoleService.
type MockRoles struct {
	Log *CallLog

	CreateRoleFunc       func(ctx context.Context, name, path, trustPolicy string) (*provisioning.Role, error)
	CreatePolicyFunc     func(ctx context.Context, name, path, document string) (string, error)
	AttachRolePolicyFunc func(ctx context.Context, roleName, policyARN string) error
}

func (m *MockRoles) CreateRole(ctx context.Context, name, path, trustPolicy string) (*provisioning.Role, error) {
	if err := m.Log.record(CallCreateRole); err != nil {
		return nil, err
	}
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, name, path, trustPolicy)
	}
	return &provisioning.Role{Name: name}, nil
}

func (m *MockRoles) CreatePolicy(ctx context.Context, name, path, document string) (string, error) {
	if err := m.Log.record(CallCreateRolePolicy); err != nil {
		return "", err
	}
	if m.CreatePolicyFunc != nil {
		return m.CreatePolicyFunc(ctx, name, path, document)
	}
	return "", nil
}

func (m *MockRoles) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	if err := m.Log.record(CallAttachRolePolicy); err != nil {
		return err
	}
	if m.AttachRolePolicyFunc != nil {
		return m.AttachRolePolicyFunc(ctx, roleName, policyARN)
	}
	return nil
}

// MockRules is a mock implementation of provisioning.RuleService.
type MockRules struct {
	Log *CallLog

	CreateTopicRuleFunc func(ctx context.Context, rule provisioning.TopicRule) error
}

func (m *MockRules) CreateTopicRule(ctx context.Context, rule provisioning.TopicRule) error {
	if err := m.Log.record(CallCreateTopicRule); err != nil {
		return err
	}
	if m.CreateTopicRuleFunc != nil {
		return m.CreateTopicRuleFunc(ctx, rule)
	}
	return nil
}

// MockBuckets is a mock implementation of provisioning.BucketService.
type MockBuckets struct {
	mock.Mock
	Log *CallLog
}

// EnsureBucket records the call and returns the configured error.
func (m *MockBuckets) EnsureBucket(ctx context.Context, name string) error {
	if err := m.Log.record(CallEnsureBucket); err != nil {
		return err
	}
	args := m.Called(ctx, name)
	return args.Error(0)
}
