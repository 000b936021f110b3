package credentials

import (
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/provisioning"
)

func testCredential() *provisioning.DeviceCredential {
	return &provisioning.DeviceCredential{
		CertificateID:  "abc123",
		CertificateARN: "arn:aws:iot:eu-central-1:123456789012:cert/abc123",
		CertificatePEM: "CERTDATA",
		PrivateKeyPEM:  "KEYDATA",
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPersist_CreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "main", "certs")

	require.NoError(t, Persist(dir, []byte("ROOTCA"), testCredential()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{CertificateFile, TrustAnchorFile, PrivateKeyFile}, names)

	assert.Equal(t, "CERTDATA\n", readFile(t, filepath.Join(dir, CertificateFile)))
	assert.Equal(t, "ROOTCA\n", readFile(t, filepath.Join(dir, TrustAnchorFile)))
	assert.Equal(t, "KEYDATA\n", readFile(t, filepath.Join(dir, PrivateKeyFile)))
}

func TestPersist_ExistingDirectoryIsWritten(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CertificateFile), []byte("stale\n"), 0o644))

	require.NoError(t, Persist(dir, []byte("ROOTCA"), testCredential()))

	assert.Equal(t, "CERTDATA\n", readFile(t, filepath.Join(dir, CertificateFile)))
	assert.FileExists(t, filepath.Join(dir, TrustAnchorFile))
	assert.FileExists(t, filepath.Join(dir, PrivateKeyFile))
}

func TestPersist_Idempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cred := testCredential()

	require.NoError(t, Persist(dir, []byte("ROOTCA"), cred))
	first := readFile(t, filepath.Join(dir, PrivateKeyFile))
	require.NoError(t, Persist(dir, []byte("ROOTCA"), cred))

	assert.Equal(t, first, readFile(t, filepath.Join(dir, PrivateKeyFile)))
	assert.Equal(t, "CERTDATA\n", readFile(t, filepath.Join(dir, CertificateFile)))
}

func TestPersist_PrivateKeyMode(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, Persist(dir, []byte("ROOTCA"), testCredential()))

	info, err := os.Stat(filepath.Join(dir, PrivateKeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPersist_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nil credential", func(t *testing.T) {
		t.Parallel()
		err := Persist(t.TempDir(), []byte("ROOTCA"), nil)
		assert.ErrorIs(t, err, provisioning.ErrLocalIO)
	})

	t.Run("directory is a file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "certs")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		err := Persist(path, []byte("ROOTCA"), testCredential())

		assert.ErrorIs(t, err, provisioning.ErrLocalIO)
		assert.Contains(t, err.Error(), "failed to create")
	})
}

func TestTrustAnchorPEM(t *testing.T) {
	t.Parallel()
	anchor := TrustAnchorPEM()

	block, rest := pem.Decode(anchor)
	require.NotNil(t, block)
	assert.Equal(t, "CERTIFICATE", block.Type)
	assert.Empty(t, rest)
	assert.NotEqual(t, byte('\n'), anchor[len(anchor)-1])
}

func TestMaterializer_Persist(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, NewMaterializer(dir).Persist(testCredential()))

	assert.Equal(t, string(TrustAnchorPEM())+"\n", readFile(t, filepath.Join(dir, TrustAnchorFile)))
}
