package ec2

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DescribeDetails looks up hardware details for one instance: its type's
// vCPU count and memory alongside the placement data from the instance
// itself. Used for best-effort enrichment, so callers tolerate errors.
func (c *Client) DescribeDetails(ctx context.Context, providerID string) (map[string]string, error) {
	descriptions, err := c.DescribeByID(ctx, []string{providerID})
	if err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		return nil, fmt.Errorf("instance %s not found", providerID)
	}

	details := map[string]string{}
	for k, v := range descriptions[0].Details {
		details[k] = v
	}

	instanceType := details["instance-type"]
	if instanceType == "" {
		return details, nil
	}

	out, err := c.api.DescribeInstanceTypes(ctx, &ec2.DescribeInstanceTypesInput{
		InstanceTypes: []types.InstanceType{types.InstanceType(instanceType)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance type %s: %w", instanceType, err)
	}
	if len(out.InstanceTypes) == 0 {
		return details, nil
	}

	info := out.InstanceTypes[0]
	if info.VCpuInfo != nil && info.VCpuInfo.DefaultVCpus != nil {
		details["vcpus"] = strconv.FormatInt(int64(aws.ToInt32(info.VCpuInfo.DefaultVCpus)), 10)
	}
	if info.MemoryInfo != nil && info.MemoryInfo.SizeInMiB != nil {
		details["memory-mib"] = strconv.FormatInt(aws.ToInt64(info.MemoryInfo.SizeInMiB), 10)
	}

	return details, nil
}
