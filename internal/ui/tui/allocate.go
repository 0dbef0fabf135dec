package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudera/director-aws/internal/alloc"
)

// RunAllocate drives an allocation run under a live progress view. The
// run function receives an observer that feeds the view and a context
// the view cancels when the user aborts. The returned error is the run's
// own result; view errors are reported separately.
func RunAllocate(ctx context.Context, virtualIDs []string, timeout time.Duration, run func(ctx context.Context, obs alloc.Observer) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewAllocateModel(virtualIDs, timeout, cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	obs := alloc.ObserverFunc(func(e alloc.Event) {
		p.Send(EventMsg{Event: e})
	})

	done := make(chan error, 1)
	go func() {
		err := run(ctx, obs)
		done <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return <-done
}
