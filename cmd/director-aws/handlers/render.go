package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cloudera/director-aws/internal/alloc"
	"github.com/cloudera/director-aws/internal/cloud"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	outColorGreen  = lipgloss.Color("#22c55e")
	outColorRed    = lipgloss.Color("#ef4444")
	outColorYellow = lipgloss.Color("#eab308")
	outColorDim    = lipgloss.Color("#6b7280")
	outColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	outTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(outColorWhite)

	outDimStyle = lipgloss.NewStyle().
			Foreground(outColorDim)

	outGreenStyle = lipgloss.NewStyle().
			Foreground(outColorGreen)

	outRedStyle = lipgloss.NewStyle().
			Foreground(outColorRed)

	outYellowStyle = lipgloss.NewStyle().
			Foreground(outColorYellow)
)

// Marks matching internal/ui/tui/styles.go.
const (
	outReadyMark    = "[OK]"
	outFailedMark   = "[!!]"
	outGoneMark     = "[--]"
	outTimedOutMark = "[..]"
)

// renderAllocationResult produces the final per-instance summary for an
// allocation that met its minimum.
func renderAllocationResult(requested []string, result *alloc.Result) string {
	var b strings.Builder
	width := idColumnWidth(requested)

	b.WriteString("\n")
	b.WriteString(outTitleStyle.Render(fmt.Sprintf("  Allocated %d of %d instances", len(result.Ready), len(requested))))
	b.WriteString("\n\n")

	for _, id := range requested {
		rec, ok := result.Ready[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %-*s  %-20s %s\n",
			outGreenStyle.Render(outReadyMark), width, id, rec.ProviderID, rec.Address)
	}

	for _, o := range result.Failed {
		b.WriteString(renderOutcomeLine(o, width))
	}

	b.WriteString("\n")
	return b.String()
}

// renderOutcomes produces the per-instance summary for an allocation that
// fell short of its minimum. Ready instances are listed too so the caller
// sees what survived for a retry.
func renderOutcomes(outcomes []alloc.InstanceOutcome) string {
	var b strings.Builder

	ids := make([]string, 0, len(outcomes))
	ready := 0
	for _, o := range outcomes {
		ids = append(ids, o.VirtualID)
		if o.Outcome == alloc.OutcomeReady {
			ready++
		}
	}
	width := idColumnWidth(ids)

	b.WriteString("\n")
	b.WriteString(outTitleStyle.Render(fmt.Sprintf("  Allocated %d of %d instances", ready, len(outcomes))))
	b.WriteString("\n\n")

	for _, o := range outcomes {
		b.WriteString(renderOutcomeLine(o, width))
	}

	b.WriteString("\n")
	b.WriteString(outDimStyle.Render("  Surviving instances are reused on the next allocate run."))
	b.WriteString("\n\n")
	return b.String()
}

// renderOutcomeLine renders one virtual ID with its terminal outcome.
func renderOutcomeLine(o alloc.InstanceOutcome, width int) string {
	mark, style := outcomeMark(o.Outcome)
	line := fmt.Sprintf("  %s %-*s  %s", style.Render(mark), width, o.VirtualID, o.Outcome)
	if o.Err != nil {
		line += outDimStyle.Render(": " + o.Err.Error())
	}
	return line + "\n"
}

// outcomeMark maps a terminal outcome to its list mark and color.
func outcomeMark(o alloc.Outcome) (string, lipgloss.Style) {
	switch o {
	case alloc.OutcomeReady:
		return outReadyMark, outGreenStyle
	case alloc.OutcomeGone:
		return outGoneMark, outDimStyle
	case alloc.OutcomeFailed:
		return outFailedMark, outRedStyle
	default:
		return outTimedOutMark, outYellowStyle
	}
}

// renderFindResult lists the live instances found for the requested IDs.
func renderFindResult(requested []string, records map[string]*cloud.Record) string {
	var b strings.Builder
	width := idColumnWidth(requested)

	b.WriteString("\n")
	for _, id := range requested {
		rec, ok := records[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %-*s  %-20s %-15s %s\n",
			outGreenStyle.Render(outReadyMark), width, id, rec.ProviderID, rec.Address, rec.Status)
	}

	b.WriteString("\n")
	b.WriteString(outDimStyle.Render(fmt.Sprintf("  %d of %d requested IDs have a live instance.", len(records), len(requested))))
	b.WriteString("\n")
	return b.String()
}

// renderStates lists the lifecycle state of every requested ID.
func renderStates(requested []string, states map[string]cloud.Status) string {
	var b strings.Builder
	width := idColumnWidth(requested)

	counts := make(map[cloud.Status]int, len(states))

	b.WriteString("\n")
	for _, id := range requested {
		status, ok := states[id]
		if !ok {
			continue
		}
		counts[status]++
		mark, style := statusMark(status)
		fmt.Fprintf(&b, "  %s %-*s  %s\n", style.Render(mark), width, id, status)
	}

	b.WriteString("\n")
	b.WriteString(outDimStyle.Render("  " + formatStateCounts(counts)))
	b.WriteString("\n")
	return b.String()
}

// statusMark maps an instance status to its list mark and color.
func statusMark(s cloud.Status) (string, lipgloss.Style) {
	switch {
	case s == cloud.StatusRunning:
		return outReadyMark, outGreenStyle
	case s == cloud.StatusFailed:
		return outFailedMark, outRedStyle
	case s.Dead():
		return outGoneMark, outDimStyle
	default:
		return outTimedOutMark, outYellowStyle
	}
}

// formatStateCounts summarizes state totals as "3 running, 1 deleted".
func formatStateCounts(counts map[cloud.Status]int) string {
	keys := make([]string, 0, len(counts))
	for s := range counts {
		keys = append(keys, string(s))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", counts[cloud.Status(k)], k))
	}
	if len(parts) == 0 {
		return "no instances"
	}
	return strings.Join(parts, ", ")
}

// idColumnWidth returns the widest virtual ID, for column alignment.
func idColumnWidth(ids []string) int {
	width := 0
	for _, id := range ids {
		if len(id) > width {
			width = len(id)
		}
	}
	return width
}
