package alloc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudera/director-aws/internal/cloud"
)

func TestInstrumentClientDelegates(t *testing.T) {
	fake := newFakeCloud()
	client := InstrumentClient(fake)

	id, err := client.Launch(context.Background(), "vm-1", testSpec(), map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, client.Tag(context.Background(), id, map[string]string{"extra": "tag"}))
	assert.Equal(t, "tag", fake.resource(id).tags["extra"])

	descriptions, err := client.DescribeByID(context.Background(), []string{id})
	require.NoError(t, err)
	require.Len(t, descriptions, 1)
	assert.Equal(t, id, descriptions[0].ProviderID)

	require.NoError(t, client.Terminate(context.Background(), []string{id}))
	assert.Equal(t, cloud.StatusDeleted, fake.resource(id).status)
}

func TestInstrumentClientKeepsDetailCapability(t *testing.T) {
	fake := newFakeCloud()
	id := fake.seed("vm-1", cloud.StatusRunning, "10.0.0.1")

	source, ok := InstrumentClient(fake).(cloud.DetailSource)
	require.True(t, ok, "wrapping must not hide DescribeDetails")
	details, err := source.DescribeDetails(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "test-1a", details["zone"])
}

func TestInstrumentClientDoesNotInventDetailCapability(t *testing.T) {
	client := InstrumentClient(bareCloud{f: newFakeCloud()})
	_, ok := client.(cloud.DetailSource)
	assert.False(t, ok, "wrapping must not add DescribeDetails the inner client lacks")
}
