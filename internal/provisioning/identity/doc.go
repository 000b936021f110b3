// Package identity registers the device with AWS IoT.
//
// It creates the thing, issues an active certificate, writes the
// certificate and key to disk, binds the certificate to the thing and
// attaches the device policy to the certificate. The policy is expected
// to exist unless identity.createPolicy is set.
package identity
