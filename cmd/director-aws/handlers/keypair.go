package handlers

import (
	"context"
	"fmt"

	"github.com/cloudera/director-aws/internal/config"
	"github.com/cloudera/director-aws/internal/keygen"
	"github.com/cloudera/director-aws/internal/platform/awsconf"
	"github.com/cloudera/director-aws/internal/platform/ec2"
	"github.com/cloudera/director-aws/internal/util/naming"
)

// KeyImporter interface for testing - matches platform/ec2.Client.
type KeyImporter interface {
	ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (ec2.KeyPair, error)
}

// Factory function variables for keypair - can be replaced in tests.
var (
	// generateKeyPair generates a fresh RSA key pair.
	generateKeyPair = keygen.GenerateRSAKeyPair

	// newKeyImporter creates the EC2-backed key pair importer.
	newKeyImporter = func(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (KeyImporter, error) {
		clients, err := awsconf.NewClients(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS clients: %w", err)
		}
		return ec2.NewClient(clients.EC2, ec2.WithTimeouts(timeouts)), nil
	}
)

// Keypair generates an RSA key pair, writes it to disk, and registers the
// public half with the provider under the given name.
//
// Only the EC2 backend supports provider-side key pair registration; the
// command fails up front for other providers. The key files are written
// before the import so a rejected import never loses the generated key.
func Keypair(ctx context.Context, configPath, keyName, outDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Provider != config.ProviderEC2 {
		return fmt.Errorf("key pair registration requires the ec2 provider, configuration uses %q", cfg.Provider)
	}

	if keyName == "" {
		keyName = naming.KeyPair(cfg.NamePrefix, "key")
	}

	kp, err := generateKeyPair(keygen.DefaultBits)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	privatePath, publicPath, err := kp.Write(outDir, keyName)
	if err != nil {
		return fmt.Errorf("failed to write key files: %w", err)
	}

	timeouts := loadTimeouts(cfg)

	importer, err := newKeyImporter(ctx, cfg, timeouts)
	if err != nil {
		return err
	}

	pair, err := importer.ImportKeyPair(ctx, keyName, kp.PublicKey, cfg.UserTags)
	if err != nil {
		return err
	}

	printKeypairSuccess(pair, privatePath, publicPath)
	return nil
}

// printKeypairSuccess prints the registered key details and next steps.
func printKeypairSuccess(pair ec2.KeyPair, privatePath, publicPath string) {
	fmt.Println()
	fmt.Println("Key pair registered!")
	fmt.Println()
	fmt.Printf("  Name:        %s\n", pair.Name)
	if pair.ID != "" {
		fmt.Printf("  ID:          %s\n", pair.ID)
	}
	if pair.Fingerprint != "" {
		fmt.Printf("  Fingerprint: %s\n", pair.Fingerprint)
	}
	fmt.Printf("  Private key: %s\n", privatePath)
	fmt.Printf("  Public key:  %s\n", publicPath)
	fmt.Println()
	fmt.Println("Reference the key from your configuration to install it on")
	fmt.Println("allocated instances:")
	fmt.Println()
	fmt.Printf("  template:\n")
	fmt.Printf("    key_name: %s\n", pair.Name)
	fmt.Println()
}
