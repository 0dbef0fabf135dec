package alloc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/util/tags"
)

// fakeCloud is an in-memory provider. Launched resources start pending and
// only change state when a test mutates them, usually from the
// beforeDescribeByID hook, which runs with the lock held before each
// batched describe and stands in for the remote provider making progress.
type fakeCloud struct {
	mu        sync.Mutex
	seq       int
	resources map[string]*fakeResource

	launchCalls        int
	launchInflight     int
	launchPeak         int
	tagCalls           int
	terminateCalls     int
	describeByTagCalls int
	describeByIDCalls  int
	detailsCalls       int

	terminated []string

	launchDelay        time.Duration
	launchErr          func(virtualID string) error
	tagErr             func(providerID string) error
	describeByIDErr    func(call int) error
	detailsErr         error
	extraByTag         []cloud.Description
	beforeDescribeByID func(call int, resources map[string]*fakeResource)
}

type fakeResource struct {
	providerID string
	num        int
	tags       map[string]string
	status     cloud.Status
	address    string
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{resources: make(map[string]*fakeResource)}
}

var (
	_ cloud.Client       = (*fakeCloud)(nil)
	_ cloud.DetailSource = (*fakeCloud)(nil)
)

// seed inserts a correlated resource as if a previous run created it.
func (f *fakeCloud) seed(virtualID string, status cloud.Status, address string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.newResource(map[string]string{tags.KeyInstanceID: virtualID})
	r.status = status
	r.address = address
	return r.providerID
}

// newResource allocates the next provider ID. Callers hold the lock.
func (f *fakeCloud) newResource(tagSet map[string]string) *fakeResource {
	f.seq++
	r := &fakeResource{
		providerID: fmt.Sprintf("i-%03d", f.seq),
		num:        f.seq,
		tags:       map[string]string{},
		status:     cloud.StatusPending,
	}
	for k, v := range tagSet {
		r.tags[k] = v
	}
	f.resources[r.providerID] = r
	return r
}

func (f *fakeCloud) Launch(_ context.Context, virtualID string, _ cloud.Spec, tagSet map[string]string) (string, error) {
	f.mu.Lock()
	f.launchCalls++
	f.launchInflight++
	if f.launchInflight > f.launchPeak {
		f.launchPeak = f.launchInflight
	}
	delay := f.launchDelay
	errFn := f.launchErr
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	defer func() {
		f.mu.Lock()
		f.launchInflight--
		f.mu.Unlock()
	}()

	if errFn != nil {
		if err := errFn(virtualID); err != nil {
			return "", err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newResource(tagSet).providerID, nil
}

func (f *fakeCloud) DescribeByTag(_ context.Context, key string, values []string) ([]cloud.Description, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeByTagCalls++

	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}

	var out []cloud.Description
	for _, r := range f.sorted() {
		if wanted[r.tags[key]] {
			out = append(out, r.describe())
		}
	}
	return append(out, f.extraByTag...), nil
}

func (f *fakeCloud) DescribeByID(_ context.Context, providerIDs []string) ([]cloud.Description, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeByIDCalls++
	call := f.describeByIDCalls

	if f.describeByIDErr != nil {
		if err := f.describeByIDErr(call); err != nil {
			return nil, err
		}
	}
	if f.beforeDescribeByID != nil {
		f.beforeDescribeByID(call, f.resources)
	}

	var out []cloud.Description
	for _, id := range providerIDs {
		if r, ok := f.resources[id]; ok {
			out = append(out, r.describe())
		}
	}
	return out, nil
}

func (f *fakeCloud) Tag(_ context.Context, providerID string, tagSet map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagCalls++

	if f.tagErr != nil {
		if err := f.tagErr(providerID); err != nil {
			return err
		}
	}

	r, ok := f.resources[providerID]
	if !ok {
		return fmt.Errorf("no such resource: %s", providerID)
	}
	for k, v := range tagSet {
		r.tags[k] = v
	}
	return nil
}

func (f *fakeCloud) Terminate(_ context.Context, providerIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminateCalls++
	for _, id := range providerIDs {
		f.terminated = append(f.terminated, id)
		if r, ok := f.resources[id]; ok {
			r.status = cloud.StatusDeleted
		}
	}
	return nil
}

func (f *fakeCloud) DescribeDetails(_ context.Context, providerID string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	if _, ok := f.resources[providerID]; !ok {
		return nil, fmt.Errorf("no such resource: %s", providerID)
	}
	return map[string]string{"zone": "test-1a"}, nil
}

func (f *fakeCloud) sorted() []*fakeResource {
	out := make([]*fakeResource, 0, len(f.resources))
	for _, r := range f.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].providerID < out[j].providerID })
	return out
}

func (f *fakeCloud) resource(providerID string) fakeResource {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.resources[providerID]
}

func (f *fakeCloud) counts() (launches, describesByTag, describesByID, tagCalls, terminates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launchCalls, f.describeByTagCalls, f.describeByIDCalls, f.tagCalls, f.terminateCalls
}

func (r *fakeResource) describe() cloud.Description {
	return cloud.Description{
		ProviderID: r.providerID,
		VirtualID:  r.tags[tags.KeyInstanceID],
		State:      string(r.status),
		Status:     r.status,
		Address:    r.address,
	}
}

// Hook helpers. They run inside beforeDescribeByID, where the lock is
// already held.

func readyAll(resources map[string]*fakeResource) {
	for _, r := range resources {
		if r.status == cloud.StatusPending {
			r.status = cloud.StatusRunning
			r.address = fmt.Sprintf("10.0.0.%d", r.num)
		}
	}
}

func killByVirtualID(resources map[string]*fakeResource, virtualIDs ...string) {
	doomed := make(map[string]bool, len(virtualIDs))
	for _, id := range virtualIDs {
		doomed[id] = true
	}
	for _, r := range resources {
		if doomed[r.tags[tags.KeyInstanceID]] {
			r.status = cloud.StatusDeleted
			r.address = ""
		}
	}
}

// bareCloud hides the DetailSource method of fakeCloud so tests can
// exercise clients without the optional capability.
type bareCloud struct {
	f *fakeCloud
}

var _ cloud.Client = bareCloud{}

func (b bareCloud) Launch(ctx context.Context, virtualID string, spec cloud.Spec, tagSet map[string]string) (string, error) {
	return b.f.Launch(ctx, virtualID, spec, tagSet)
}

func (b bareCloud) DescribeByTag(ctx context.Context, key string, values []string) ([]cloud.Description, error) {
	return b.f.DescribeByTag(ctx, key, values)
}

func (b bareCloud) DescribeByID(ctx context.Context, providerIDs []string) ([]cloud.Description, error) {
	return b.f.DescribeByID(ctx, providerIDs)
}

func (b bareCloud) Tag(ctx context.Context, providerID string, tagSet map[string]string) error {
	return b.f.Tag(ctx, providerID, tagSet)
}

func (b bareCloud) Terminate(ctx context.Context, providerIDs []string) error {
	return b.f.Terminate(ctx, providerIDs)
}
