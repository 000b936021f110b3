// Package role provisions the IAM role the IoT rules engine assumes to
// write into the analytics channel.
//
// The role trusts iot.amazonaws.com. Its only permission is
// iotanalytics:BatchPutMessage on the one channel the routing rule
// targets.
package role
