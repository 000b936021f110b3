// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - ProviderFixture: Mock providers answering every call successfully
//   - CallLog: Ordered record of provider calls shared by all mocks
//   - RecordingObserver: Observer capturing events for assertions
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithCertsDir(t.TempDir()).
//	    Build()
//
//	fixture := testing.NewProviderFixture()
//	fixture.Log.FailOn(testing.CallCreateDatastore, errRejected)
//	ctx := testing.NewProvisioningContext(t, cfg, fixture.Providers())
package testing
