// Package hcloud provides instance allocation on Hetzner Cloud.
//
// Hetzner has no tags; the correlation tags become server labels, and
// tag correlation queries become label selectors. Label values are
// limited to 63 characters from [a-zA-Z0-9._-], which bounds the virtual
// instance IDs usable with this backend.
package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
)

// Client implements server allocation on Hetzner Cloud.
type Client struct {
	client   *hcloud.Client
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

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client authenticated by the given API token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(token)),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
