// Package provisioning provides shared types, interfaces, and orchestration for
// provisioning a device-to-analytics telemetry flow.
//
// # Subpackages
//
//   - credentials/: Writing device certificate, key and root CA to disk
//   - identity/: IoT thing, certificate and policy attachment
//   - analytics/: IoT Analytics channel, datastore, pipeline and dataset
//   - role/: IAM role assumed by the rules engine
//   - rule/: IoT topic rule forwarding telemetry into the channel
//
// # Core Types
//
// Context carries configuration, target account, providers, state, observer and metrics.
// Phase defines a provisioning step with Name(), Reaches() and Provision() methods.
// State records the stage reached and the typed result of each completed phase.
// Pipeline runs phases strictly in order and stops at the first failure.
package provisioning
