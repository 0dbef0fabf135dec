package rds

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/naming"
	"github.com/cloudera/director-aws/internal/util/retry"
)

// Template option keys understood by the RDS backend. The spec's Image is
// the database engine and Type is the instance class.
const (
	OptEngineVersion    = "engine_version"
	OptAllocatedStorage = "allocated_storage"
	OptMasterUsername   = "master_username"
	OptMasterPassword   = "master_password"
	OptMultiAZ          = "multi_az"
	OptStorageType      = "storage_type"
	OptPort             = "port"
)

const defaultAllocatedStorage = 20

// Launch creates one database instance and returns its identifier. The
// identifier derives from the virtual instance ID, so retrying a launch
// that already succeeded finds the existing database instead of creating
// a second one.
func (c *Client) Launch(ctx context.Context, virtualID string, spec cloud.Spec, tags map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.LaunchTimeout)
	defer cancel()

	identifier := naming.DBIdentifier(spec.NamePrefix, virtualID)
	input, err := buildCreateInput(identifier, spec, tags)
	if err != nil {
		return "", fmt.Errorf("invalid database template for %s: %w", virtualID, err)
	}

	err = retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.api.CreateDBInstance(ctx, input)
		if err != nil {
			if isAlreadyExists(err) {
				// A previous attempt created it under the derived identifier.
				return nil
			}
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return "", fmt.Errorf("failed to create database for %s: %w", virtualID, err)
	}

	return identifier, nil
}

func buildCreateInput(identifier string, spec cloud.Spec, tags map[string]string) (*rds.CreateDBInstanceInput, error) {
	storage := defaultAllocatedStorage
	if raw, ok := spec.Options[OptAllocatedStorage]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %q", OptAllocatedStorage, raw)
		}
		storage = parsed
	}

	input := &rds.CreateDBInstanceInput{
		DBInstanceIdentifier: aws.String(identifier),
		Engine:               aws.String(spec.Image),
		DBInstanceClass:      aws.String(spec.Type),
		AllocatedStorage:     aws.Int32(int32(storage)),
	}

	if spec.Network != "" {
		input.DBSubnetGroupName = aws.String(spec.Network)
	}
	if len(spec.Groups) > 0 {
		input.VpcSecurityGroupIds = spec.Groups
	}
	if v := spec.Options[OptEngineVersion]; v != "" {
		input.EngineVersion = aws.String(v)
	}
	if v := spec.Options[OptMasterUsername]; v != "" {
		input.MasterUsername = aws.String(v)
	}
	if v := spec.Options[OptMasterPassword]; v != "" {
		input.MasterUserPassword = aws.String(v)
	}
	if v := spec.Options[OptStorageType]; v != "" {
		input.StorageType = aws.String(v)
	}
	if raw, ok := spec.Options[OptMultiAZ]; ok {
		multiAZ, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean: %q", OptMultiAZ, raw)
		}
		input.MultiAZ = aws.Bool(multiAZ)
	}
	if raw, ok := spec.Options[OptPort]; ok {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %q", OptPort, raw)
		}
		input.Port = aws.Int32(int32(port))
	}

	if tags != nil {
		input.Tags = toRDSTags(tags)
	}

	return input, nil
}

// Tag attaches tags to an existing database instance. RDS tags by ARN,
// so the instance is described first.
func (c *Client) Tag(ctx context.Context, providerID string, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}

	arn, err := c.instanceARN(ctx, providerID)
	if err != nil {
		return err
	}

	err = retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.api.AddTagsToResource(ctx, &rds.AddTagsToResourceInput{
			ResourceName: aws.String(arn),
			Tags:         toRDSTags(tags),
		})
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return fmt.Errorf("failed to tag database %s: %w", providerID, err)
	}
	return nil
}

// Terminate deletes the given database instances without final snapshots.
// Identifiers that no longer exist, or are already being deleted, are
// ignored.
func (c *Client) Terminate(ctx context.Context, providerIDs []string) error {
	if len(providerIDs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.DeleteTimeout)
	defer cancel()

	for _, id := range providerIDs {
		_, err := c.api.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
			DBInstanceIdentifier:   aws.String(id),
			SkipFinalSnapshot:      aws.Bool(true),
			DeleteAutomatedBackups: aws.Bool(true),
		})
		if err != nil && !isNotFound(err) && !isInvalidState(err) {
			return fmt.Errorf("failed to delete database %s: %w", id, err)
		}
	}
	return nil
}
