// Package credentials writes a device's certificate, private key and the
// Amazon root CA to the directory the firmware build reads them from.
package credentials
