package handlers

import (
	"context"
	"fmt"

	"github.com/cloudera/director-aws/internal/alloc"
)

// Find looks up which of the given virtual instance IDs currently map to a
// live instance and prints one line per match.
//
// The lookup is read-only. IDs without a live instance are omitted from the
// listing and only counted in the footer.
func Find(ctx context.Context, configPath string, virtualIDs []string) error {
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

	records, err := allocator.Find(ctx, virtualIDs)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	fmt.Print(renderFindResult(virtualIDs, records))
	return nil
}
