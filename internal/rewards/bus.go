package rewards

import (
	"log/slog"
	"sync"
)

// EventKind discriminates bus events. The legacy app used several distinct
// event names for the same underlying "rewards changed" concept; they are
// collapsed into one bus with a kind field.
type EventKind string

const (
	KindBalanceChanged     EventKind = "balance_changed"
	KindCardAdded          EventKind = "card_added"
	KindRecommendationSent EventKind = "recommendation_sent"
	KindLedgerReloaded     EventKind = "ledger_reloaded"
)

// Event is an ephemeral change notification. Fields other than Kind are
// advisory: consumers must treat an event as a hint to re-read the ledger,
// never as an authoritative delta to apply blindly.
type Event struct {
	Kind    EventKind
	UserID  string
	Balance int
	Delta   int
	Reason  string
	Token   string
}

// ChangeBus fans events out to in-process subscribers. Delivery is
// synchronous, at-least-once, possibly duplicated, and unordered within a
// burst. A subscriber that panics does not prevent delivery to the rest.
type ChangeBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
	logger *slog.Logger
}

func NewChangeBus(logger *slog.Logger) *ChangeBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeBus{subs: make(map[int]func(Event)), logger: logger}
}

// Subscribe registers handler and returns its unsubscribe function.
// Unsubscribing twice is harmless. The same observer may hold several
// subscriptions.
func (b *ChangeBus) Subscribe(handler func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers ev to every current subscriber.
func (b *ChangeBus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliver(h, ev)
	}
}

func (b *ChangeBus) deliver(h func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("changebus: subscriber panicked", "kind", ev.Kind, "panic", r)
		}
	}()
	h(ev)
}
