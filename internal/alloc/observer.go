package alloc

import (
	"github.com/go-logr/logr"
)

// EventType classifies engine progress events.
type EventType string

const (
	// EventCorrelated fires when an ID resolves to an existing resource.
	EventCorrelated EventType = "correlated"
	// EventLaunching fires before a creation request is issued.
	EventLaunching EventType = "launching"
	// EventLaunched fires once a creation request returns a provider ID.
	EventLaunched EventType = "launched"
	// EventTagged fires when the tag-after-create path attaches the
	// correlation tag.
	EventTagged EventType = "tagged"
	// EventReady fires when an instance reaches running with an address.
	EventReady EventType = "ready"
	// EventGone fires when an instance reaches a terminal state before
	// becoming ready.
	EventGone EventType = "gone"
	// EventFailed fires when a per-instance operation fails for good.
	EventFailed EventType = "failed"
	// EventPoll fires after every poll cycle with the batch counters.
	EventPoll EventType = "poll"
	// EventDone fires once per allocation with the final tally.
	EventDone EventType = "done"
)

// Event is one step of engine progress. Consumers render it; the engine
// never blocks on them, so Observe implementations must return promptly.
type Event struct {
	Type       EventType
	VirtualID  string
	ProviderID string
	Address    string
	Err        error

	// Pending, Ready, and Total carry batch counters on poll and done
	// events; they are zero elsewhere.
	Pending int
	Ready   int
	Total   int
}

// Observer receives engine progress events.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// NewLogObserver returns an Observer that writes every event to log.
// Poll events go to the debug level to keep steady-state output quiet.
func NewLogObserver(log logr.Logger) Observer {
	return ObserverFunc(func(e Event) {
		switch e.Type {
		case EventCorrelated:
			log.Info("instance already exists", "virtualID", e.VirtualID, "providerID", e.ProviderID)
		case EventLaunching:
			log.V(1).Info("launching instance", "virtualID", e.VirtualID)
		case EventLaunched:
			log.Info("instance launched", "virtualID", e.VirtualID, "providerID", e.ProviderID)
		case EventTagged:
			log.V(1).Info("instance tagged", "virtualID", e.VirtualID, "providerID", e.ProviderID)
		case EventReady:
			log.Info("instance ready", "virtualID", e.VirtualID, "providerID", e.ProviderID, "address", e.Address)
		case EventGone:
			log.Info("instance gone", "virtualID", e.VirtualID, "providerID", e.ProviderID)
		case EventFailed:
			log.Error(e.Err, "instance failed", "virtualID", e.VirtualID, "providerID", e.ProviderID)
		case EventPoll:
			log.V(1).Info("waiting for instances", "pending", e.Pending, "ready", e.Ready, "total", e.Total)
		case EventDone:
			log.Info("allocation finished", "ready", e.Ready, "total", e.Total)
		}
	})
}

// nopObserver drops every event.
type nopObserver struct{}

func (nopObserver) Observe(Event) {}
