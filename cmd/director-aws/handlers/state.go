package handlers

import (
	"context"
	"fmt"

	"github.com/cloudera/director-aws/internal/alloc"
)

// State reports the lifecycle state of every given virtual instance ID.
//
// IDs with no instance behind them report as deleted rather than being
// omitted, so the output always covers the full request.
func State(ctx context.Context, configPath string, virtualIDs []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts(cfg)

	client, err := newCloudClient(ctx, cfg, timeouts)
	if err != nil {
		return err
	}

	log := newLogger()
	allocator := newAllocator(client, cfg, timeouts, log, alloc.NewLogObserver(log))

	states, err := allocator.InstanceStates(ctx, virtualIDs)
	if err != nil {
		return fmt.Errorf("state lookup failed: %w", err)
	}

	fmt.Print(renderStates(virtualIDs, states))
	return nil
}
