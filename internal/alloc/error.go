package alloc

import (
	"fmt"
	"strings"
)

// Outcome is the terminal state of one virtual instance ID at the end of
// an allocation.
type Outcome string

const (
	// OutcomeReady means the instance is running with a network address.
	OutcomeReady Outcome = "ready"
	// OutcomeGone means the resource reached a terminal provider state
	// before becoming ready.
	OutcomeGone Outcome = "gone"
	// OutcomeFailed means a per-instance operation failed, e.g. the
	// creation request was rejected.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimedOut means the resource was still in flight when the
	// allocation deadline elapsed. Timed-out instances are incomplete,
	// not failed; the resource may become usable later.
	OutcomeTimedOut Outcome = "timed-out"
)

// InstanceOutcome pairs a virtual instance ID with its terminal outcome.
// Err carries the recorded failure for OutcomeFailed, nil otherwise.
type InstanceOutcome struct {
	VirtualID string
	Outcome   Outcome
	Err       error
}

// Error reports an allocation whose ready count fell below the requested
// minimum. Outcomes enumerates every requested virtual instance ID,
// including the ones that did become ready.
type Error struct {
	MinCount int
	Outcomes []InstanceOutcome
}

// ReadyCount returns how many instances reached ready.
func (e *Error) ReadyCount() int {
	n := 0
	for _, o := range e.Outcomes {
		if o.Outcome == OutcomeReady {
			n++
		}
	}
	return n
}

// Error renders the shortfall with one entry per instance that did not
// become ready.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "allocation yielded %d of %d requested instances, minimum is %d",
		e.ReadyCount(), len(e.Outcomes), e.MinCount)

	sep := ": "
	for _, o := range e.Outcomes {
		if o.Outcome == OutcomeReady {
			continue
		}
		b.WriteString(sep)
		sep = ", "
		b.WriteString(o.VirtualID)
		b.WriteString(" ")
		b.WriteString(string(o.Outcome))
		if o.Err != nil {
			fmt.Fprintf(&b, " (%v)", o.Err)
		}
	}
	return b.String()
}
