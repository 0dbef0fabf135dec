package ec2

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudera/director-aws/internal/util/retry"
)

// Tag attaches tags to an existing instance.
func (c *Client) Tag(ctx context.Context, providerID string, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}

	input := &ec2.CreateTagsInput{
		Resources: []string{providerID},
		Tags:      toEC2Tags(tags),
	}

	err := retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.api.CreateTags(ctx, input)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return fmt.Errorf("failed to tag instance %s: %w", providerID, err)
	}
	return nil
}

// Terminate terminates the given instances. IDs that no longer exist are
// ignored, so re-running a delete is safe.
func (c *Client) Terminate(ctx context.Context, providerIDs []string) error {
	if len(providerIDs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DeleteTimeout)
	defer cancel()

	_, err := c.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: providerIDs,
	})
	if err == nil {
		return nil
	}
	if !IsNotFound(err) {
		return fmt.Errorf("failed to terminate instances: %w", err)
	}

	// One unknown ID fails the whole batch call. Fall back to terminating
	// individually so the known instances still go away.
	var errs []error
	for _, id := range providerIDs {
		_, err := c.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: []string{id},
		})
		if err != nil && !IsNotFound(err) {
			errs = append(errs, fmt.Errorf("failed to terminate instance %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
