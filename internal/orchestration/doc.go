// Package orchestration provides high-level workflow coordination for device provisioning.
//
// This package orchestrates the provisioning workflow by delegating to specialized
// provisioners in the internal/provisioning subpackages. It defines the execution order
// and coordinates state flow between provisioning phases.
//
// # Workflow
//
// The Reconciler executes the following phases in order:
//  1. Validation - Pre-flight configuration validation
//  2. Identity - Thing, certificate, local credential files and device policy
//  3. Analytics - Channel, datastore, pipeline and dataset
//  4. Role - Execution role scoped to the channel
//  5. Rule - Topic rule routing device messages into the channel
//
// After the rule is in place the device data endpoint is looked up and
// reported. A failed lookup does not fail the run.
//
// # Usage
//
//	reconciler := orchestration.NewReconciler(cfg, target, providers)
//	state, err := reconciler.Reconcile(ctx)
//
// A run is not idempotent. Resources left by an earlier run make the
// matching step fail with provisioning.ErrNameCollision, and nothing created
// before a failure is removed.
package orchestration
