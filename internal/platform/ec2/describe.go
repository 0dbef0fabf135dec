package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// DescribeByTag returns every instance carrying one of the values under
// the given tag key. The result includes instances in terminal states;
// callers decide whether those count.
func (c *Client) DescribeByTag(ctx context.Context, key string, values []string) ([]cloud.Description, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return c.describe(ctx, types.Filter{
		Name:   aws.String("tag:" + key),
		Values: values,
	})
}

// DescribeByID returns descriptions for the given instance IDs. Unknown
// IDs are omitted from the result, not reported as errors.
func (c *Client) DescribeByID(ctx context.Context, providerIDs []string) ([]cloud.Description, error) {
	if len(providerIDs) == 0 {
		return nil, nil
	}
	return c.describe(ctx, types.Filter{
		Name:   aws.String("instance-id"),
		Values: providerIDs,
	})
}

func (c *Client) describe(ctx context.Context, filter types.Filter) ([]cloud.Description, error) {
	input := &ec2.DescribeInstancesInput{Filters: []types.Filter{filter}}

	var out []cloud.Description
	paginator := ec2.NewDescribeInstancesPaginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				out = append(out, toDescription(instance))
			}
		}
	}
	return out, nil
}

// toDescription converts an SDK instance into the provider-neutral form.
func toDescription(instance types.Instance) cloud.Description {
	d := cloud.Description{
		ProviderID: aws.ToString(instance.InstanceId),
		VirtualID:  tagValue(instance.Tags, tags.KeyInstanceID),
	}

	if instance.State != nil {
		d.State = string(instance.State.Name)
		d.Status = mapState(instance.State.Name)
	} else {
		d.Status = cloud.StatusUnknown
	}

	// Private IP first; instances without one fall back to the public IP.
	if addr := aws.ToString(instance.PrivateIpAddress); addr != "" {
		d.Address = addr
	} else {
		d.Address = aws.ToString(instance.PublicIpAddress)
	}

	details := map[string]string{}
	if instance.InstanceType != "" {
		details["instance-type"] = string(instance.InstanceType)
	}
	if image := aws.ToString(instance.ImageId); image != "" {
		details["image"] = image
	}
	if instance.Placement != nil {
		if az := aws.ToString(instance.Placement.AvailabilityZone); az != "" {
			details["availability-zone"] = az
		}
	}
	if len(details) > 0 {
		d.Details = details
	}

	return d
}

// mapState translates every EC2 instance state into the neutral status
// vocabulary. Unrecognized states map to unknown rather than failing.
func mapState(name types.InstanceStateName) cloud.Status {
	switch name {
	case types.InstanceStateNamePending:
		return cloud.StatusPending
	case types.InstanceStateNameRunning:
		return cloud.StatusRunning
	case types.InstanceStateNameStopping:
		return cloud.StatusStopping
	case types.InstanceStateNameStopped:
		return cloud.StatusStopped
	case types.InstanceStateNameShuttingDown:
		return cloud.StatusDeleting
	case types.InstanceStateNameTerminated:
		return cloud.StatusDeleted
	default:
		return cloud.StatusUnknown
	}
}

func tagValue(ec2Tags []types.Tag, key string) string {
	for _, tag := range ec2Tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
