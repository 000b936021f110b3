package credentials

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/iotflow/internal/provisioning"
)

// File names written by Persist.
const (
	CertificateFile = "certificate.pem.crt"
	TrustAnchorFile = "aws-root-ca.pem"
	PrivateKeyFile  = "private.pem.key"
)

//go:embed AmazonRootCA1.pem
var amazonRootCA1 []byte

// TrustAnchorPEM returns the Amazon Root CA 1 certificate, without a
// trailing newline.
func TrustAnchorPEM() []byte {
	return bytes.TrimRight(amazonRootCA1, "\r\n")
}

// Persist creates dir if needed and writes the device certificate, the trust
// anchor and the private key into it. Existing files are overwritten.
// Every file holds its input followed by a single newline.
func Persist(dir string, trustAnchorPEM []byte, cred *provisioning.DeviceCredential) error {
	if cred == nil {
		return fmt.Errorf("%w: no credential to persist", provisioning.ErrLocalIO)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", provisioning.ErrLocalIO, dir, err)
	}

	files := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{CertificateFile, []byte(cred.CertificatePEM), 0o644},
		{TrustAnchorFile, trustAnchorPEM, 0o644},
		{PrivateKeyFile, []byte(cred.PrivateKeyPEM), 0o600},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data := append(bytes.Clone(f.data), '\n')
		if err := os.WriteFile(path, data, f.perm); err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", provisioning.ErrLocalIO, path, err)
		}
	}
	return nil
}

// Materializer persists credentials to a fixed directory with the embedded
// trust anchor.
type Materializer struct {
	Dir string
}

// NewMaterializer creates a materializer writing to dir.
func NewMaterializer(dir string) *Materializer {
	return &Materializer{Dir: dir}
}

// Persist writes cred and the Amazon root CA to the materializer's directory.
func (m *Materializer) Persist(cred *provisioning.DeviceCredential) error {
	return Persist(m.Dir, TrustAnchorPEM(), cred)
}
