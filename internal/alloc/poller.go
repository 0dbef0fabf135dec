package alloc

import (
	"context"
	"time"

	"github.com/cloudera/director-aws/internal/cloud"
)

// poll drives records toward ready or gone. Each cycle issues one batched
// describe over the still-pending provider IDs; instances the provider no
// longer reports stay pending, since a terminating resource shows a dead
// state long before it stops being reported. The loop ends when nothing
// is pending or the allocation deadline elapses; records still pending
// then are left as they are and classified timed-out by the caller.
// Cancellation of ctx aborts immediately.
func (a *Allocator) poll(ctx context.Context, records []*cloud.Record) error {
	pending := make(map[string]*cloud.Record, len(records))
	for _, record := range records {
		switch {
		case record.Err != nil || record.ProviderID == "":
			// Launch never produced a resource; nothing to wait for.
		case record.Ready():
			a.finishReady(ctx, record)
		case record.Status.Dead():
			a.finishGone(record)
		default:
			pending[record.ProviderID] = record
		}
	}

	deadline := time.NewTimer(a.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for len(pending) > 0 {
		if err := a.pollOnce(ctx, pending); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// One failed describe must not kill a minutes-long
			// allocation; the deadline bounds how long this can go on.
			a.log.Error(err, "poll cycle failed", "pending", len(pending))
		}
		ready := 0
		for _, record := range records {
			if record.Ready() {
				ready++
			}
		}
		a.observe(Event{Type: EventPoll, Pending: len(pending), Ready: ready, Total: len(records)})
		if len(pending) == 0 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			a.log.Info("allocation deadline elapsed with instances still pending",
				"pending", len(pending), "timeout", a.timeout)
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// pollOnce issues one batched describe and settles every record whose
// resource reached a terminal condition, removing it from pending.
func (a *Allocator) pollOnce(ctx context.Context, pending map[string]*cloud.Record) error {
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}

	descriptions, err := a.client.DescribeByID(ctx, ids)
	if err != nil {
		return err
	}

	for _, d := range descriptions {
		record, ok := pending[d.ProviderID]
		if !ok {
			continue
		}
		record.ApplyDescription(d)

		switch {
		case record.Ready():
			delete(pending, d.ProviderID)
			a.finishReady(ctx, record)
		case record.Status.Dead():
			delete(pending, d.ProviderID)
			a.finishGone(record)
		}
	}
	return nil
}

// finishReady settles a record that reached ready, enriching it with
// display details when the client can provide them. Detail lookups are
// best-effort: an error leaves the record ready with whatever details the
// describe already carried.
func (a *Allocator) finishReady(ctx context.Context, record *cloud.Record) {
	if source, ok := a.client.(cloud.DetailSource); ok {
		details, err := source.DescribeDetails(ctx, record.ProviderID)
		if err != nil {
			a.log.V(1).Info("detail lookup failed, leaving details empty",
				"virtualID", record.VirtualID, "providerID", record.ProviderID, "error", err.Error())
		} else if len(details) > 0 {
			record.Details = details
		}
	}
	a.observe(Event{Type: EventReady, VirtualID: record.VirtualID, ProviderID: record.ProviderID, Address: record.Address})
}

// finishGone settles a record whose resource died before becoming ready.
// Gone is a provisioning outcome, not an error: the record keeps a nil
// Err and is simply excluded from the ready set.
func (a *Allocator) finishGone(record *cloud.Record) {
	a.log.Info("instance terminated before becoming ready",
		"virtualID", record.VirtualID, "providerID", record.ProviderID, "state", record.Status)
	a.observe(Event{Type: EventGone, VirtualID: record.VirtualID, ProviderID: record.ProviderID})
}
