package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderInstances(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("director-aws: allocating %d instances", len(m.Order))))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Failed: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render("Allocating")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	_, settled := m.counts()
	progress := 0.0
	if len(m.Order) > 0 {
		progress = float64(settled) / float64(len(m.Order))
	}
	if m.Done {
		progress = 1.0
	}

	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderInstances(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Instances"))
	b.WriteString("\n")

	for _, id := range m.Order {
		r := m.Rows[id]
		mark, style := rowMark(r.Phase, m.SpinnerFrame)

		line := fmt.Sprintf("    %s %-20s", mark, r.VirtualID)
		if r.ProviderID != "" {
			line += fmt.Sprintf("  %-21s", r.ProviderID)
		}
		switch {
		case r.Phase == rowReady && r.Address != "":
			line += "  " + r.Address
		case r.Phase == rowFailed && r.Err != nil:
			line += "  " + r.Err.Error()
		case r.Phase == rowGone:
			line += "  terminated before ready"
		}

		b.WriteString(style(line))
		b.WriteString("\n")
	}
}

func rowMark(p rowPhase, frame int) (string, styleFunc) {
	switch p {
	case rowReady:
		return checkMark, sf(readyStyle)
	case rowFailed:
		return crossMark, sf(failedStyle)
	case rowGone:
		return goneMark, sf(warningStyle)
	case rowLaunching, rowBooting:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	ready, settled := m.counts()
	elapsed := formatDuration(time.Since(m.StartTime))

	line := fmt.Sprintf("  %d/%d ready, %d pending, elapsed %s",
		ready, len(m.Order), len(m.Order)-settled, elapsed)
	if m.Timeout > 0 {
		line += fmt.Sprintf(" (timeout %s)", formatDuration(m.Timeout))
	}
	if !m.Done {
		line += "  |  q to cancel"
	}

	b.WriteString(footerStyle.Render(line))
	b.WriteString("\n")
}

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
