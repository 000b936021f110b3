// Package aws adapts the AWS SDK clients to the provider capabilities used
// by provisioning.
//
// IoTClient serves device identities, topic rules and the data endpoint.
// AnalyticsClient serves IoT Analytics channels, datastores, pipelines and
// datasets. IAMClient serves roles and managed policies. Every SDK error is
// returned as a *provisioning.ProviderError; "already exists" exceptions
// are flagged as name collisions.
//
// The SDK retryer is disabled: a failed call fails the run.
package aws
