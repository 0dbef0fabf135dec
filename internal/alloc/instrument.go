package alloc

import (
	"context"
	"time"

	"github.com/cloudera/director-aws/internal/cloud"
)

// InstrumentClient wraps a provider client so every API call feeds the
// per-operation counters and latency histograms. The wrapper forwards the
// DetailSource capability only when the underlying client has it, so the
// engine's interface probe still answers truthfully.
func InstrumentClient(client cloud.Client) cloud.Client {
	ic := instrumentedClient{inner: client}
	if source, ok := client.(cloud.DetailSource); ok {
		return &instrumentedDetailClient{instrumentedClient: ic, source: source}
	}
	return &ic
}

type instrumentedClient struct {
	inner cloud.Client
}

func (c *instrumentedClient) Launch(ctx context.Context, virtualID string, spec cloud.Spec, tags map[string]string) (string, error) {
	start := time.Now()
	id, err := c.inner.Launch(ctx, virtualID, spec, tags)
	recordAPICall("launch", start, err)
	return id, err
}

func (c *instrumentedClient) DescribeByTag(ctx context.Context, key string, values []string) ([]cloud.Description, error) {
	start := time.Now()
	out, err := c.inner.DescribeByTag(ctx, key, values)
	recordAPICall("describe_by_tag", start, err)
	return out, err
}

func (c *instrumentedClient) DescribeByID(ctx context.Context, providerIDs []string) ([]cloud.Description, error) {
	start := time.Now()
	out, err := c.inner.DescribeByID(ctx, providerIDs)
	recordAPICall("describe_by_id", start, err)
	return out, err
}

func (c *instrumentedClient) Tag(ctx context.Context, providerID string, tags map[string]string) error {
	start := time.Now()
	err := c.inner.Tag(ctx, providerID, tags)
	recordAPICall("tag", start, err)
	return err
}

func (c *instrumentedClient) Terminate(ctx context.Context, providerIDs []string) error {
	start := time.Now()
	err := c.inner.Terminate(ctx, providerIDs)
	recordAPICall("terminate", start, err)
	return err
}

type instrumentedDetailClient struct {
	instrumentedClient
	source cloud.DetailSource
}

func (c *instrumentedDetailClient) DescribeDetails(ctx context.Context, providerID string) (map[string]string, error) {
	start := time.Now()
	out, err := c.source.DescribeDetails(ctx, providerID)
	recordAPICall("describe_details", start, err)
	return out, err
}
