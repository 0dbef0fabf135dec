package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudera/director-aws/internal/cloud"
)

func TestFind(t *testing.T) {
	fake := &fakeAllocator{
		findRes: map[string]*cloud.Record{
			"vm-1": {VirtualID: "vm-1", ProviderID: "i-001", Status: cloud.StatusRunning, Address: "10.0.0.1"},
		},
	}
	installFakeAllocator(t, fake)

	var err error
	output := captureOutput(func() {
		err = Find(context.Background(), "director.yaml", []string{"vm-1", "vm-2"})
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"vm-1", "vm-2"}, fake.findIDs)
	assert.Contains(t, output, "vm-1")
	assert.Contains(t, output, "i-001")
	assert.Contains(t, output, "1 of 2 requested IDs have a live instance")
	assert.NotContains(t, output, "vm-2 ")
}

func TestFind_NoneLive(t *testing.T) {
	fake := &fakeAllocator{findRes: map[string]*cloud.Record{}}
	installFakeAllocator(t, fake)

	var err error
	output := captureOutput(func() {
		err = Find(context.Background(), "director.yaml", []string{"vm-1"})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "0 of 1 requested IDs have a live instance")
}

func TestFind_Error(t *testing.T) {
	fake := &fakeAllocator{findErr: errors.New("throttled")}
	installFakeAllocator(t, fake)

	err := Find(context.Background(), "director.yaml", []string{"vm-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup failed")
	assert.Contains(t, err.Error(), "throttled")
}
