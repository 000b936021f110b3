package testing

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/iotflow/internal/provisioning"
)

// Target is the account and region used by fixtures.
var Target = provisioning.CallerIdentity{Account: "123456789012", Region: "eu-central-1"}

// Values returned by a ProviderFixture.
const (
	CertificateID  = "0123456789abcdef"
	CertificatePEM = "CERTDATA"
	PrivateKeyPEM  = "KEYDATA"
	RoleID         = "AROATESTROLEID"
	DataEndpoint   = "a1b2c3d4e5f6g7-ats.iot.eu-central-1.amazonaws.com"
)

// ProviderFixture provides mock providers configured for a successful run.
// All mocks share Log.
type ProviderFixture struct {
	Log       *CallLog
	Identity  *MockIdentity
	Analytics *MockAnalytics
	Roles     *MockRoles
	Rules     *MockRules
	Buckets   *MockBuckets
}

// NewProviderFixture creates mocks that answer every call successfully
// with ARNs in the fixture Target.
func NewProviderFixture() *ProviderFixture {
	log := NewCallLog()
	f := &ProviderFixture{
		Log:       log,
		Identity:  &MockIdentity{Log: log},
		Analytics: &MockAnalytics{Log: log},
		Roles:     &MockRoles{Log: log},
		Rules:     &MockRules{Log: log},
		Buckets:   &MockBuckets{Log: log},
	}

	f.Identity.CreateThingFunc = func(_ context.Context, name string) (*provisioning.Thing, error) {
		return &provisioning.Thing{Name: name, ARN: iotARN("thing/" + name), ID: "thing-" + name}, nil
	}
	f.Identity.CreateKeysAndCertificateFunc = func(_ context.Context, _ bool) (*provisioning.DeviceCredential, error) {
		return &provisioning.DeviceCredential{
			CertificateID:  CertificateID,
			CertificateARN: iotARN("cert/" + CertificateID),
			CertificatePEM: CertificatePEM,
			PrivateKeyPEM:  PrivateKeyPEM,
			PublicKeyPEM:   "PUBDATA",
		}, nil
	}
	f.Identity.CreatePolicyFunc = func(_ context.Context, name, _ string) (string, error) {
		return iotARN("policy/" + name), nil
	}
	f.Identity.DescribeDataEndpointFunc = func(_ context.Context) (string, error) {
		return DataEndpoint, nil
	}

	f.Analytics.CreateChannelFunc = func(_ context.Context, spec provisioning.ChannelSpec) (string, error) {
		return analyticsARN("channel/" + spec.Name), nil
	}
	f.Analytics.CreateDatastoreFunc = func(_ context.Context, spec provisioning.DatastoreSpec) (string, error) {
		return analyticsARN("datastore/" + spec.Name), nil
	}
	f.Analytics.CreatePipelineFunc = func(_ context.Context, spec provisioning.PipelineSpec) (string, error) {
		return analyticsARN("pipeline/" + spec.Name), nil
	}
	f.Analytics.CreateDatasetFunc = func(_ context.Context, spec provisioning.DatasetSpec) (string, error) {
		return analyticsARN("dataset/" + spec.Name), nil
	}

	f.Roles.CreateRoleFunc = func(_ context.Context, name, path, _ string) (*provisioning.Role, error) {
		return &provisioning.Role{
			Name: name,
			ID:   RoleID,
			ARN:  fmt.Sprintf("arn:aws:iam::%s:role%s%s", Target.Account, path, name),
		}, nil
	}
	f.Roles.CreatePolicyFunc = func(_ context.Context, name, path, _ string) (string, error) {
		return fmt.Sprintf("arn:aws:iam::%s:policy%s%s", Target.Account, path, name), nil
	}

	f.Buckets.On("EnsureBucket", mock.Anything, mock.Anything).Return(nil).Maybe()

	return f
}

// Providers returns the fixture's mocks as provider capabilities.
func (f *ProviderFixture) Providers() provisioning.Providers {
	return provisioning.Providers{
		Identity:  f.Identity,
		Analytics: f.Analytics,
		Roles:     f.Roles,
		Rules:     f.Rules,
		Buckets:   f.Buckets,
	}
}

// Rejected returns a provider rejection as an adapter would report it.
func Rejected(service, operation, code string) error {
	return &provisioning.ProviderError{
		Service:   service,
		Operation: operation,
		Code:      code,
		Err:       fmt.Errorf("%s rejected by test provider", operation),
	}
}

// Collision returns a name collision as an adapter would report it.
func Collision(service, operation string) error {
	return &provisioning.ProviderError{
		Service:   service,
		Operation: operation,
		Code:      "ResourceAlreadyExistsException",
		Collision: true,
		Err:       fmt.Errorf("resource already exists"),
	}
}

func iotARN(resource string) string {
	return fmt.Sprintf("arn:aws:iot:%s:%s:%s", Target.Region, Target.Account, resource)
}

func analyticsARN(resource string) string {
	return fmt.Sprintf("arn:aws:iotanalytics:%s:%s:%s", Target.Region, Target.Account, resource)
}
