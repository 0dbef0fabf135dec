package rds

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// DescribeByTag returns every database instance carrying one of the
// values under the given tag key. DescribeDBInstances cannot filter on
// tags server-side, so this pages through the account's instances and
// matches the TagList locally.
func (c *Client) DescribeByTag(ctx context.Context, key string, values []string) ([]cloud.Description, error) {
	if len(values) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}

	var out []cloud.Description
	paginator := rds.NewDescribeDBInstancesPaginator(c.api, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe databases: %w", err)
		}
		for _, db := range page.DBInstances {
			if wanted[tagValue(db.TagList, key)] {
				out = append(out, toDescription(db))
			}
		}
	}
	return out, nil
}

// DescribeByID returns descriptions for the given database identifiers.
// Unknown identifiers are omitted from the result.
func (c *Client) DescribeByID(ctx context.Context, providerIDs []string) ([]cloud.Description, error) {
	if len(providerIDs) == 0 {
		return nil, nil
	}

	input := &rds.DescribeDBInstancesInput{
		Filters: []types.Filter{{
			Name:   aws.String("db-instance-id"),
			Values: providerIDs,
		}},
	}

	var out []cloud.Description
	paginator := rds.NewDescribeDBInstancesPaginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe databases: %w", err)
		}
		for _, db := range page.DBInstances {
			out = append(out, toDescription(db))
		}
	}
	return out, nil
}

// DescribeDetails returns engine and placement details for one database.
func (c *Client) DescribeDetails(ctx context.Context, providerID string) (map[string]string, error) {
	descriptions, err := c.DescribeByID(ctx, []string{providerID})
	if err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		return nil, fmt.Errorf("database %s not found", providerID)
	}
	return descriptions[0].Details, nil
}

func (c *Client) instanceARN(ctx context.Context, providerID string) (string, error) {
	descriptions, err := c.DescribeByID(ctx, []string{providerID})
	if err != nil {
		return "", err
	}
	if len(descriptions) == 0 {
		return "", fmt.Errorf("database %s not found", providerID)
	}
	arn := descriptions[0].Details["arn"]
	if arn == "" {
		return "", fmt.Errorf("database %s has no ARN", providerID)
	}
	return arn, nil
}

func toDescription(db types.DBInstance) cloud.Description {
	d := cloud.Description{
		ProviderID: aws.ToString(db.DBInstanceIdentifier),
		VirtualID:  tagValue(db.TagList, tags.KeyInstanceID),
		State:      aws.ToString(db.DBInstanceStatus),
	}
	d.Status = mapStatus(d.State)

	if db.Endpoint != nil {
		d.Address = aws.ToString(db.Endpoint.Address)
	}

	details := map[string]string{}
	if engine := aws.ToString(db.Engine); engine != "" {
		details["engine"] = engine
	}
	if version := aws.ToString(db.EngineVersion); version != "" {
		details["engine-version"] = version
	}
	if class := aws.ToString(db.DBInstanceClass); class != "" {
		details["instance-class"] = class
	}
	if az := aws.ToString(db.AvailabilityZone); az != "" {
		details["availability-zone"] = az
	}
	if arn := aws.ToString(db.DBInstanceArn); arn != "" {
		details["arn"] = arn
	}
	if db.Endpoint != nil && db.Endpoint.Port != nil {
		details["port"] = strconv.FormatInt(int64(aws.ToInt32(db.Endpoint.Port)), 10)
	}
	if len(details) > 0 {
		d.Details = details
	}

	return d
}

// mapStatus translates RDS instance status strings into the neutral
// status vocabulary. RDS reports many transitional states; anything that
// is converging toward available counts as pending.
func mapStatus(status string) cloud.Status {
	switch status {
	case "available", "storage-optimization":
		return cloud.StatusRunning
	case "creating", "backing-up", "modifying", "rebooting", "renaming",
		"starting", "upgrading", "maintenance",
		"configuring-enhanced-monitoring", "configuring-iam-database-auth",
		"configuring-log-exports", "resetting-master-credentials":
		return cloud.StatusPending
	case "stopping":
		return cloud.StatusStopping
	case "stopped":
		return cloud.StatusStopped
	case "deleting":
		return cloud.StatusDeleting
	case "deleted":
		return cloud.StatusDeleted
	case "failed", "inaccessible-encryption-credentials",
		"incompatible-network", "incompatible-option-group",
		"incompatible-parameters", "incompatible-restore",
		"insufficient-capacity", "storage-full":
		return cloud.StatusFailed
	default:
		return cloud.StatusUnknown
	}
}

func tagValue(list []types.Tag, key string) string {
	for _, tag := range list {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

// toRDSTags converts a tag map into SDK tags in deterministic key order.
func toRDSTags(m map[string]string) []types.Tag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
