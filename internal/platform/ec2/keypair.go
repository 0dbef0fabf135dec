package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// KeyPair describes an imported SSH key pair.
type KeyPair struct {
	ID          string
	Name        string
	Fingerprint string
}

// ImportKeyPair registers a public key under the given name so launched
// instances can reference it through the template's key_name.
func (c *Client) ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (KeyPair, error) {
	input := &ec2.ImportKeyPairInput{
		KeyName:           aws.String(name),
		PublicKeyMaterial: publicKey,
	}
	if tags != nil {
		input.TagSpecifications = []types.TagSpecification{
			{ResourceType: types.ResourceTypeKeyPair, Tags: toEC2Tags(tags)},
		}
	}

	out, err := c.api.ImportKeyPair(ctx, input)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to import key pair %s: %w", name, err)
	}

	return KeyPair{
		ID:          aws.ToString(out.KeyPairId),
		Name:        aws.ToString(out.KeyName),
		Fingerprint: aws.ToString(out.KeyFingerprint),
	}, nil
}
