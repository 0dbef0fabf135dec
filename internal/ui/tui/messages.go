// Package tui provides a Bubble Tea-based live view for allocation runs.
package tui

import "github.com/cloudera/director-aws/internal/alloc"

// EventMsg wraps one engine progress event.
type EventMsg struct {
	Event alloc.Event
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// DoneMsg signals that the allocation run returned.
type DoneMsg struct {
	Err error
}
