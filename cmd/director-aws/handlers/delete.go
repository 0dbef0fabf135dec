package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/cloudera/director-aws/internal/alloc"
)

// Factory function variables for delete - can be replaced in tests.
var (
	// confirmDelete asks the user to confirm the termination.
	confirmDelete = func(ctx context.Context, virtualIDs []string) (bool, error) {
		var ok bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Terminate all instances behind %d virtual IDs?", len(virtualIDs))).
				Description(strings.Join(virtualIDs, ", ")).
				Affirmative("Terminate").
				Negative("Cancel").
				Value(&ok),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return false, err
		}
		return ok, nil
	}
)

// Delete terminates every instance carrying one of the given virtual
// instance IDs, duplicates from interrupted allocations included.
//
// Interactive runs ask for confirmation first; non-interactive runs refuse
// to proceed unless the caller passed --yes. IDs with no instance behind
// them are skipped, so the command can be retried safely.
func Delete(ctx context.Context, configPath string, virtualIDs []string, skipPrompt bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !skipPrompt {
		if !interactiveTTY() {
			return errors.New("refusing to terminate without confirmation; pass --yes to proceed")
		}
		ok, err := confirmDelete(ctx, virtualIDs)
		if err != nil {
			return fmt.Errorf("confirmation canceled: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	timeouts := loadTimeouts(cfg)

	client, err := newCloudClient(ctx, cfg, timeouts)
	if err != nil {
		return err
	}

	log := newLogger()
	allocator := newAllocator(client, cfg, timeouts, log, alloc.NewLogObserver(log))

	if err := allocator.Delete(ctx, virtualIDs); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Printf("Terminated instances for %d virtual IDs.\n", len(virtualIDs))
	return nil
}
