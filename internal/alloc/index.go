package alloc

import (
	"context"
	"fmt"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// describeCorrelated returns every resource whose correlation tag carries
// one of the requested virtual IDs, in a single batched query. The result
// may contain terminal-dead resources and, after a crash between create
// and tag calls, more than one resource per ID; callers filter.
func (a *Allocator) describeCorrelated(ctx context.Context, virtualIDs []string) ([]cloud.Description, error) {
	descriptions, err := a.client.DescribeByTag(ctx, tags.KeyInstanceID, virtualIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up instances by tag: %w", err)
	}

	requested := make(map[string]bool, len(virtualIDs))
	for _, id := range virtualIDs {
		requested[id] = true
	}

	// Providers match tag filters loosely in places (RDS scans
	// client-side, label selectors match prefixes of nothing we send);
	// keep only exact requested IDs.
	out := descriptions[:0]
	for _, d := range descriptions {
		if requested[d.VirtualID] {
			out = append(out, d)
		}
	}
	return out, nil
}

// correlate resolves virtual IDs to their single live provider resource.
// Terminal-dead resources count as absent, so an ID whose resource was
// terminated out-of-band is relaunched rather than blocked by the stale
// tag. When duplicates exist the first live resource wins; the loser is
// only logged, never touched, and a later delete reaps it.
func (a *Allocator) correlate(ctx context.Context, virtualIDs []string) (map[string]cloud.Description, error) {
	descriptions, err := a.describeCorrelated(ctx, virtualIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]cloud.Description, len(descriptions))
	for _, d := range descriptions {
		if d.Status.Dead() {
			a.log.V(1).Info("ignoring dead resource with live tag",
				"virtualID", d.VirtualID, "providerID", d.ProviderID, "state", d.State)
			continue
		}
		if prev, ok := out[d.VirtualID]; ok {
			a.log.Info("duplicate live resources share a virtual instance ID",
				"virtualID", d.VirtualID, "kept", prev.ProviderID, "ignored", d.ProviderID)
			continue
		}
		out[d.VirtualID] = d
	}
	return out, nil
}
