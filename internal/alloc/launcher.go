package alloc

import (
	"context"
	"fmt"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
	"github.com/cloudera/director-aws/internal/util/async"
	"github.com/cloudera/director-aws/internal/util/naming"
	"github.com/cloudera/director-aws/internal/util/retry"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// launch requests creation of one resource per record, concurrently up to
// the configured cap. Creation failures are recorded on the failing
// record; only cancellation of ctx aborts the batch. Records arrive
// without a provider ID and leave with one, or with Err set.
func (a *Allocator) launch(ctx context.Context, spec cloud.Spec, records []*cloud.Record) error {
	if len(records) == 0 {
		return nil
	}

	byID := make(map[string]*cloud.Record, len(records))
	tasks := make([]async.Task, 0, len(records))
	for _, record := range records {
		byID[record.VirtualID] = record
		tasks = append(tasks, async.Task{
			Name: record.VirtualID,
			Func: func(ctx context.Context) error {
				return a.launchOne(ctx, spec, record)
			},
		})
	}

	for _, res := range async.RunParallel(ctx, tasks, a.maxLaunches) {
		if res.Err == nil {
			continue
		}
		record := byID[res.Name]
		record.Err = res.Err
		record.Status = cloud.StatusFailed
		recordLaunch("failure")
		a.observe(Event{Type: EventFailed, VirtualID: record.VirtualID, ProviderID: record.ProviderID, Err: res.Err})
	}

	// Per-record errors above may wrap deadline errors from the client's
	// own call timeouts; only the state of ctx itself decides whether the
	// batch was interrupted.
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// launchOne creates the resource for a single record and ensures the
// correlation tag ends up on it. The tag either rides along atomically in
// the create call or, in after-create mode, is attached by a separately
// retried tagging call. Lookup never depends on the tag being visible
// right away: readiness polls go by provider ID.
func (a *Allocator) launchOne(ctx context.Context, spec cloud.Spec, record *cloud.Record) error {
	tagSet := tags.NewBuilder(record.VirtualID).
		WithTemplate(spec.NamePrefix).
		WithName(naming.Instance(spec.NamePrefix, record.VirtualID)).
		Merge(spec.Tags).
		Build()

	a.observe(Event{Type: EventLaunching, VirtualID: record.VirtualID})

	createTags := tagSet
	if a.tagging == config.TagAfterCreate {
		createTags = nil
	}

	providerID, err := a.client.Launch(ctx, record.VirtualID, spec, createTags)
	if err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}
	record.ProviderID = providerID
	record.Status = cloud.StatusPending
	recordLaunch("success")
	a.observe(Event{Type: EventLaunched, VirtualID: record.VirtualID, ProviderID: providerID})

	if a.tagging != config.TagAfterCreate {
		return nil
	}

	err = retry.WithExponentialBackoff(ctx, func() error {
		return a.client.Tag(ctx, providerID, tagSet)
	}, retry.WithMaxRetries(a.retryAttempts), retry.WithInitialDelay(a.retryDelay))
	if err != nil {
		// An untagged resource is invisible to every future correlation
		// lookup, so leaving it running would leak it for good.
		a.terminateUntagged(ctx, providerID)
		return fmt.Errorf("tagging failed after create, instance %s terminated: %w", providerID, err)
	}
	a.observe(Event{Type: EventTagged, VirtualID: record.VirtualID, ProviderID: providerID})
	return nil
}

// terminateUntagged reaps a resource that was created but never tagged.
// It runs detached from ctx cancellation: cleanup is the one thing that
// must still happen when the caller is bailing out.
func (a *Allocator) terminateUntagged(ctx context.Context, providerID string) {
	if err := a.client.Terminate(context.WithoutCancel(ctx), []string{providerID}); err != nil {
		a.log.Error(err, "failed to terminate untagged instance; it will not be found again",
			"providerID", providerID)
	}
}
