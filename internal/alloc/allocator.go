package alloc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
)

// Allocator reconciles batches of virtual instance IDs against one
// provider. It holds no state between calls; every decision starts from a
// fresh tag lookup, which is what makes retrying an interrupted
// allocation safe.
type Allocator struct {
	client        cloud.Client
	tagging       config.Tagging
	pollInterval  time.Duration
	timeout       time.Duration
	maxLaunches   int
	retryAttempts int
	retryDelay    time.Duration
	log           logr.Logger
	obs           Observer
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithTagging selects when the correlation tag is attached.
func WithTagging(t config.Tagging) Option {
	return func(a *Allocator) {
		a.tagging = t
	}
}

// WithTimeouts applies the process-wide timing configuration.
func WithTimeouts(t *config.Timeouts) Option {
	return func(a *Allocator) {
		a.pollInterval = t.PollInterval
		a.timeout = t.AllocationTimeout
		a.maxLaunches = t.MaxConcurrentLaunches
		a.retryAttempts = t.RetryMaxAttempts
		a.retryDelay = t.RetryInitialDelay
	}
}

// WithLogger sets the engine logger.
func WithLogger(log logr.Logger) Option {
	return func(a *Allocator) {
		a.log = log
	}
}

// WithObserver sets the progress event sink.
func WithObserver(obs Observer) Option {
	return func(a *Allocator) {
		a.obs = obs
	}
}

// New creates an Allocator on top of a provider client.
func New(client cloud.Client, opts ...Option) *Allocator {
	defaults := config.DefaultTimeouts()
	a := &Allocator{
		client:  client,
		tagging: config.TagOnCreate,
		log:     logr.Discard(),
		obs:     nopObserver{},
	}
	WithTimeouts(&defaults)(a)
	for _, opt := range opts {
		opt(a)
	}
	if a.pollInterval <= 0 {
		a.pollInterval = defaults.PollInterval
	}
	if a.timeout <= 0 {
		a.timeout = defaults.AllocationTimeout
	}
	return a
}

func (a *Allocator) observe(e Event) { a.obs.Observe(e) }

// Request describes one allocation batch.
type Request struct {
	// VirtualIDs are the caller-assigned instance IDs, unique within the
	// batch. The engine never generates IDs.
	VirtualIDs []string

	// MinCount is the smallest ready count the caller accepts. The call
	// fails with *Error when fewer instances become ready; shortfalls
	// above it are reported, not retried - replacement launches are the
	// caller's decision.
	MinCount int

	// Spec is the shape shared by every instance in the batch.
	Spec cloud.Spec
}

func (r Request) validate() error {
	if len(r.VirtualIDs) == 0 {
		return errors.New("at least one virtual instance ID is required")
	}
	if r.MinCount < 0 {
		return fmt.Errorf("minimum count must not be negative, got %d", r.MinCount)
	}
	if r.MinCount > len(r.VirtualIDs) {
		return fmt.Errorf("minimum count %d exceeds the %d requested instances", r.MinCount, len(r.VirtualIDs))
	}
	seen := make(map[string]bool, len(r.VirtualIDs))
	for _, id := range r.VirtualIDs {
		if id == "" {
			return errors.New("virtual instance IDs must not be empty")
		}
		if seen[id] {
			return fmt.Errorf("duplicate virtual instance ID %q", id)
		}
		seen[id] = true
	}
	return nil
}

// Result is the outcome of an allocation that met its minimum.
type Result struct {
	// Ready holds the records that reached ready, keyed by virtual ID.
	Ready map[string]*cloud.Record

	// Failed enumerates the requested IDs that did not become ready and
	// why, so callers can log or retry the shortfall. Empty when every
	// instance made it.
	Failed []InstanceOutcome
}

// Allocate reconciles the requested IDs to ready instances: IDs with a
// live correlated resource reuse it, the rest get one launched, and the
// whole working set is polled until ready, gone, or timed out. Calling
// Allocate again with the same IDs after a partial failure is safe; it
// never launches a second resource for an ID whose resource survived.
func (a *Allocator) Allocate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := req.validate(); err != nil {
		recordAllocation("invalid", time.Since(start))
		return nil, err
	}

	records, err := a.assemble(ctx, req)
	if err == nil {
		err = a.poll(ctx, records)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			recordAllocation("interrupted", time.Since(start))
		} else {
			recordAllocation("error", time.Since(start))
		}
		return nil, err
	}

	result := &Result{Ready: make(map[string]*cloud.Record, len(records))}
	outcomes := make([]InstanceOutcome, 0, len(records))
	for _, record := range records {
		outcome := classify(record)
		outcomes = append(outcomes, InstanceOutcome{VirtualID: record.VirtualID, Outcome: outcome, Err: record.Err})
		recordInstanceOutcome(outcome)
		if outcome == OutcomeReady {
			result.Ready[record.VirtualID] = record
		} else {
			result.Failed = append(result.Failed, InstanceOutcome{VirtualID: record.VirtualID, Outcome: outcome, Err: record.Err})
		}
	}
	a.observe(Event{Type: EventDone, Ready: len(result.Ready), Total: len(records)})

	if len(result.Ready) < req.MinCount {
		recordAllocation("shortfall", time.Since(start))
		return nil, &Error{MinCount: req.MinCount, Outcomes: outcomes}
	}
	recordAllocation("success", time.Since(start))
	return result, nil
}

// assemble builds the working set for a request: one record per ID,
// existing resources folded in from the correlation index and the rest
// freshly launched.
func (a *Allocator) assemble(ctx context.Context, req Request) ([]*cloud.Record, error) {
	existing, err := a.correlate(ctx, req.VirtualIDs)
	if err != nil {
		return nil, err
	}

	records := make([]*cloud.Record, 0, len(req.VirtualIDs))
	var missing []*cloud.Record
	for _, id := range req.VirtualIDs {
		record := &cloud.Record{VirtualID: id}
		records = append(records, record)
		if d, ok := existing[id]; ok {
			record.ApplyDescription(d)
			a.observe(Event{Type: EventCorrelated, VirtualID: id, ProviderID: d.ProviderID})
		} else {
			missing = append(missing, record)
		}
	}
	a.log.Info("allocation working set assembled",
		"requested", len(records), "existing", len(records)-len(missing), "launching", len(missing))

	if err := a.launch(ctx, req.Spec, missing); err != nil {
		return nil, err
	}
	return records, nil
}

// classify derives the terminal outcome of a record once polling is over.
func classify(record *cloud.Record) Outcome {
	switch {
	case record.Ready():
		return OutcomeReady
	case record.Err != nil:
		return OutcomeFailed
	case record.Status.Dead():
		return OutcomeGone
	default:
		return OutcomeTimedOut
	}
}

// Find resolves virtual IDs to their current records through the
// correlation index alone: no launching, no waiting, no writes. IDs
// without a live resource are absent from the result, not an error.
func (a *Allocator) Find(ctx context.Context, virtualIDs []string) (map[string]*cloud.Record, error) {
	existing, err := a.correlate(ctx, dedupe(virtualIDs))
	if err != nil {
		return nil, err
	}

	out := make(map[string]*cloud.Record, len(existing))
	for id, d := range existing {
		record := &cloud.Record{VirtualID: id}
		record.ApplyDescription(d)
		out[id] = record
	}
	return out, nil
}

// InstanceStates returns the abstract status of every requested ID in one
// batched query. Unlike Find it reports dying resources as they are; an
// ID with no correlated resource at all reads as deleted, which is also
// what a fully reaped instance converges to.
func (a *Allocator) InstanceStates(ctx context.Context, virtualIDs []string) (map[string]cloud.Status, error) {
	ids := dedupe(virtualIDs)
	descriptions, err := a.describeCorrelated(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]cloud.Status, len(ids))
	for _, id := range ids {
		out[id] = cloud.StatusDeleted
	}
	for _, d := range descriptions {
		// On duplicates, a live resource outranks a dead leftover. The
		// deleted default counts as dead, so any real description wins.
		if prev, ok := out[d.VirtualID]; ok && !prev.Dead() {
			continue
		}
		out[d.VirtualID] = d.Status
	}
	return out, nil
}

// Delete terminates every resource correlated to the given IDs, including
// dead leftovers and duplicates from interrupted runs. IDs with no
// correlated resource are already deleted as far as the caller is
// concerned; deleting them again is a no-op, not an error.
func (a *Allocator) Delete(ctx context.Context, virtualIDs []string) error {
	descriptions, err := a.describeCorrelated(ctx, dedupe(virtualIDs))
	if err != nil {
		return err
	}
	if len(descriptions) == 0 {
		return nil
	}

	providerIDs := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		providerIDs = append(providerIDs, d.ProviderID)
	}
	sort.Strings(providerIDs)

	a.log.Info("terminating instances", "count", len(providerIDs))
	if err := a.client.Terminate(ctx, providerIDs); err != nil {
		return fmt.Errorf("failed to terminate instances: %w", err)
	}
	return nil
}

// dedupe drops duplicate and empty IDs, preserving order. The read-only
// operations accept sloppy input; only Allocate insists on a clean batch.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
