package ec2

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/retry"
)

// Launch creates one instance from the spec and returns its instance ID.
// When tags is non-nil they are attached atomically in the RunInstances
// call, covering the instance and its root volume.
func (c *Client) Launch(ctx context.Context, virtualID string, spec cloud.Spec, tags map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.LaunchTimeout)
	defer cancel()

	input := buildRunInput(spec, tags)

	var out *ec2.RunInstancesOutput
	err := retry.WithExponentialBackoff(ctx, func() error {
		res, err := c.api.RunInstances(ctx, input)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		out = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return "", fmt.Errorf("failed to launch instance for %s: %w", virtualID, err)
	}
	if len(out.Instances) == 0 {
		return "", fmt.Errorf("launch for %s returned no instances", virtualID)
	}

	return aws.ToString(out.Instances[0].InstanceId), nil
}

// buildRunInput assembles the RunInstances request for a single instance.
func buildRunInput(spec cloud.Spec, tags map[string]string) *ec2.RunInstancesInput {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(spec.Image),
		InstanceType: types.InstanceType(spec.Type),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
	}

	if spec.Network != "" {
		input.SubnetId = aws.String(spec.Network)
	}
	if len(spec.Groups) > 0 {
		input.SecurityGroupIds = spec.Groups
	}
	if spec.KeyName != "" {
		input.KeyName = aws.String(spec.KeyName)
	}
	if spec.UserData != "" {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(spec.UserData)))
	}

	if tags != nil {
		ec2Tags := toEC2Tags(tags)
		input.TagSpecifications = []types.TagSpecification{
			{ResourceType: types.ResourceTypeInstance, Tags: ec2Tags},
			{ResourceType: types.ResourceTypeVolume, Tags: ec2Tags},
		}
	}

	return input
}

// toEC2Tags converts a tag map into SDK tags in deterministic key order.
func toEC2Tags(tags map[string]string) []types.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}
