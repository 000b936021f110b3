// Package rule creates the AWS IoT topic rule that forwards device
// telemetry into the analytics channel.
package rule
