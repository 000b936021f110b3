// Package naming builds the resource locators used in policy documents.
//
// IoT Analytics channels are addressed as
// arn:aws:iotanalytics:{region}:{account}:channel/{channel}. The channel
// name is interpolated verbatim, so anything that would widen the
// resource (wildcards, extra path segments) is rejected.
package naming
