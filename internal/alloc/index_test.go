package alloc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudera/director-aws/internal/cloud"
)

func TestCorrelateFiltersForeignIDs(t *testing.T) {
	fake := newFakeCloud()
	fake.seed("vm-1", cloud.StatusRunning, "10.0.0.1")
	// A loosely matching provider query can return resources whose tag
	// value was never requested; they must not leak into the index.
	fake.extraByTag = []cloud.Description{{
		ProviderID: "i-999",
		VirtualID:  "someone-elses-vm",
		Status:     cloud.StatusRunning,
		Address:    "10.0.9.9",
	}}
	allocator := newTestAllocator(fake)

	found, err := allocator.Find(context.Background(), []string{"vm-1"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.NotContains(t, found, "someone-elses-vm")
}

func TestCorrelateKeepsFirstLiveDuplicate(t *testing.T) {
	fake := newFakeCloud()
	first := fake.seed("vm-1", cloud.StatusRunning, "10.0.0.1")
	fake.seed("vm-1", cloud.StatusRunning, "10.0.0.2")
	allocator := newTestAllocator(fake)

	found, err := allocator.Find(context.Background(), []string{"vm-1"})
	require.NoError(t, err)
	require.NotNil(t, found["vm-1"])
	assert.Equal(t, first, found["vm-1"].ProviderID)
}

func TestCorrelateIgnoresDeadBeforeLive(t *testing.T) {
	fake := newFakeCloud()
	fake.seed("vm-1", cloud.StatusFailed, "")
	live := fake.seed("vm-1", cloud.StatusPending, "")
	allocator := newTestAllocator(fake)

	found, err := allocator.Find(context.Background(), []string{"vm-1"})
	require.NoError(t, err)
	require.NotNil(t, found["vm-1"])
	assert.Equal(t, live, found["vm-1"].ProviderID)
	assert.Equal(t, cloud.StatusPending, found["vm-1"].Status)
}

func TestDescribeCorrelatedPropagatesLookupError(t *testing.T) {
	fake := newFakeCloud()
	failing := describeFailingCloud{fakeCloud: fake}
	allocator := newTestAllocator(failing)

	_, err := allocator.Find(context.Background(), []string{"vm-1"})
	assert.ErrorContains(t, err, "failed to look up instances by tag")
}

type describeFailingCloud struct {
	*fakeCloud
}

func (describeFailingCloud) DescribeByTag(context.Context, string, []string) ([]cloud.Description, error) {
	return nil, assert.AnError
}
