package bus

import "time"

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls every matching handler in the caller
// goroutine, in subscription order, with typed subscribers first and wildcard
// subscribers after. Handler errors do not stop delivery; they are joined and
// returned from Publish. Handlers should be quick or hand work off to their own
// goroutine.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type and to
	// every wildcard subscriber.
	Publish(event Event) error
	// PublishBatch publishes events in order and joins the errors of all of them.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for one event type, or for all of them with Wildcard.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// Metrics returns a snapshot of the delivery counters.
	Metrics() Metrics
}

// Event is an immutable message transported by the bus. It marshals to the
// JSON frames the HUD feed sends.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler from the bus. Multiple calls are safe.
	Cancel() error
}

// Metrics are best-effort counters since the bus was created.
type Metrics struct {
	Published         uint64 `json:"published"`
	DeliveredHandlers uint64 `json:"delivered_handlers"`
	Errors            uint64 `json:"errors"`
	SubscribersActive uint64 `json:"subscribers_active"`
}
