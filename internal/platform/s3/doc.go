// Package s3 provides a client for the Amazon S3 buckets behind
// customer-managed IoT Analytics storage.
//
// IoT Analytics writes channel and datastore objects into a caller-owned
// bucket when customer-managed storage is configured. EnsureBucket makes
// sure that bucket exists in the target region before the channel and
// datastore reference it.
package s3
