// Package rds provides database instance allocation on Amazon RDS.
//
// RDS has no server-side tag filter on DescribeDBInstances, so tag
// correlation scans the account's instances and matches the TagList
// client-side. Identifiers are derived from the virtual instance ID, which
// keeps create and describe idempotent even before tags are attached.
package rds

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
)

// API is the subset of the RDS SDK client the director uses.
type API interface {
	CreateDBInstance(ctx context.Context, params *rds.CreateDBInstanceInput, optFns ...func(*rds.Options)) (*rds.CreateDBInstanceOutput, error)
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	AddTagsToResource(ctx context.Context, params *rds.AddTagsToResourceInput, optFns ...func(*rds.Options)) (*rds.AddTagsToResourceOutput, error)
	DeleteDBInstance(ctx context.Context, params *rds.DeleteDBInstanceInput, optFns ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error)
}

// Client implements database allocation on Amazon RDS.
type Client struct {
	api      API
	timeouts *config.Timeouts
}

var (
	_ cloud.Client       = (*Client)(nil)
	_ cloud.DetailSource = (*Client)(nil)
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// NewClient creates a Client on top of an RDS SDK client.
func NewClient(api API, opts ...ClientOption) *Client {
	c := &Client{
		api:      api,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
