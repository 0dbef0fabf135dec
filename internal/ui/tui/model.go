package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudera/director-aws/internal/alloc"
)

// rowPhase is the display state of one instance row.
type rowPhase int

const (
	rowPending rowPhase = iota
	rowLaunching
	rowBooting
	rowReady
	rowGone
	rowFailed
)

// row tracks one requested instance through the allocation.
type row struct {
	VirtualID  string
	ProviderID string
	Address    string
	Phase      rowPhase
	Err        error
}

// Model is the Bubble Tea model for the allocate view.
type Model struct {
	// Order preserves the request order for rendering; Rows is keyed by
	// virtual instance ID.
	Order []string
	Rows  map[string]*row

	StartTime time.Time
	Timeout   time.Duration

	SpinnerFrame int

	Width  int
	Height int

	Err  error
	Done bool

	cancel context.CancelFunc
}

// NewAllocateModel creates a model tracking the given virtual instance
// IDs. The cancel function is invoked when the user aborts the view.
func NewAllocateModel(virtualIDs []string, timeout time.Duration, cancel context.CancelFunc) Model {
	rows := make(map[string]*row, len(virtualIDs))
	order := make([]string, 0, len(virtualIDs))
	for _, id := range virtualIDs {
		rows[id] = &row{VirtualID: id, Phase: rowPending}
		order = append(order, id)
	}
	return Model{
		Order:     order,
		Rows:      rows,
		StartTime: time.Now(),
		Timeout:   timeout,
		cancel:    cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Cancel the run instead of quitting outright; the program
			// stays up until the engine notices and DoneMsg arrives, so
			// the final state of every instance is shown.
			if m.cancel != nil {
				m.cancel()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e alloc.Event) {
	r, ok := m.Rows[e.VirtualID]
	if !ok {
		// Poll and done events carry batch counters, not an instance.
		return
	}

	switch e.Type {
	case alloc.EventCorrelated:
		r.ProviderID = e.ProviderID
		r.Phase = rowBooting
	case alloc.EventLaunching:
		r.Phase = rowLaunching
	case alloc.EventLaunched, alloc.EventTagged:
		r.ProviderID = e.ProviderID
		r.Phase = rowBooting
	case alloc.EventReady:
		r.ProviderID = e.ProviderID
		r.Address = e.Address
		r.Phase = rowReady
	case alloc.EventGone:
		r.Phase = rowGone
	case alloc.EventFailed:
		r.Phase = rowFailed
		r.Err = e.Err
	}
}

// counts returns how many rows are ready and how many reached any
// terminal display state.
func (m Model) counts() (ready, settled int) {
	for _, r := range m.Rows {
		switch r.Phase {
		case rowReady:
			ready++
			settled++
		case rowGone, rowFailed:
			settled++
		}
	}
	return ready, settled
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
