package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudera/director-aws/internal/config"
	"github.com/cloudera/director-aws/internal/keygen"
	"github.com/cloudera/director-aws/internal/platform/ec2"
)

// fakeKeyImporter records the import call and returns a canned key pair.
type fakeKeyImporter struct {
	name      string
	publicKey []byte
	tags      map[string]string
	err       error
}

func (f *fakeKeyImporter) ImportKeyPair(_ context.Context, name string, publicKey []byte, tags map[string]string) (ec2.KeyPair, error) {
	f.name = name
	f.publicKey = publicKey
	f.tags = tags
	if f.err != nil {
		return ec2.KeyPair{}, f.err
	}
	return ec2.KeyPair{ID: "key-0abc123", Name: name, Fingerprint: "ab:cd:ef"}, nil
}

// installFakeKeyImporter wires the keypair factories to fast fakes. Key
// generation stays real but drops to the smallest accepted size.
func installFakeKeyImporter(t *testing.T, importer *fakeKeyImporter) {
	saveAndRestoreFactories(t)

	origGenerate := generateKeyPair
	origImporter := newKeyImporter
	t.Cleanup(func() {
		generateKeyPair = origGenerate
		newKeyImporter = origImporter
	})

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	generateKeyPair = func(_ int) (*keygen.KeyPair, error) { return keygen.GenerateRSAKeyPair(2048) }
	newKeyImporter = func(_ context.Context, _ *config.Config, _ *config.Timeouts) (KeyImporter, error) {
		return importer, nil
	}
}

func TestKeypair(t *testing.T) {
	importer := &fakeKeyImporter{}
	installFakeKeyImporter(t, importer)
	dir := t.TempDir()

	var err error
	output := captureOutput(func() {
		err = Keypair(context.Background(), "director.yaml", "", dir)
	})
	require.NoError(t, err)

	assert.Equal(t, "director-key", importer.name)
	assert.NotEmpty(t, importer.publicKey)

	_, err = os.Stat(filepath.Join(dir, "director-key"))
	require.NoError(t, err, "private key file must exist")
	_, err = os.Stat(filepath.Join(dir, "director-key.pub"))
	require.NoError(t, err, "public key file must exist")

	assert.Contains(t, output, "Key pair registered!")
	assert.Contains(t, output, "key-0abc123")
	assert.Contains(t, output, "key_name: director-key")
}

func TestKeypair_CustomName(t *testing.T) {
	importer := &fakeKeyImporter{}
	installFakeKeyImporter(t, importer)
	dir := t.TempDir()

	var err error
	captureOutput(func() {
		err = Keypair(context.Background(), "director.yaml", "build-key", dir)
	})
	require.NoError(t, err)
	assert.Equal(t, "build-key", importer.name)
}

func TestKeypair_UserTagsForwarded(t *testing.T) {
	importer := &fakeKeyImporter{}
	installFakeKeyImporter(t, importer)
	loadConfigFile = func(_ string) (*config.Config, error) {
		cfg := testConfig()
		cfg.UserTags = map[string]string{"team": "data"}
		return cfg, nil
	}

	var err error
	captureOutput(func() {
		err = Keypair(context.Background(), "director.yaml", "", t.TempDir())
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"team": "data"}, importer.tags)
}

func TestKeypair_WrongProvider(t *testing.T) {
	importer := &fakeKeyImporter{}
	installFakeKeyImporter(t, importer)
	loadConfigFile = func(_ string) (*config.Config, error) {
		cfg := testConfig()
		cfg.Provider = config.ProviderHCloud
		return cfg, nil
	}

	err := Keypair(context.Background(), "director.yaml", "", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires the ec2 provider")
	assert.Empty(t, importer.name, "no import must be attempted")
}

func TestKeypair_ImportError(t *testing.T) {
	importer := &fakeKeyImporter{err: errors.New("InvalidKeyPair.Duplicate")}
	installFakeKeyImporter(t, importer)
	dir := t.TempDir()

	var err error
	captureOutput(func() {
		err = Keypair(context.Background(), "director.yaml", "", dir)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidKeyPair.Duplicate")

	// The generated key survives a rejected import.
	_, statErr := os.Stat(filepath.Join(dir, "director-key"))
	require.NoError(t, statErr)
}
