// Package analytics provisions the AWS IoT Analytics resources of a flow.
//
// Resources are created in dependency order: channel, datastore, a
// pipeline moving messages from the channel to the datastore, and a
// dataset running a scheduled SQL query over the datastore. The pipeline
// is a single linear chain of activities; BuildActivityChain produces it
// and ValidateActivityChain rejects anything else before it is sent.
package analytics
