package rewards

import "testing"

func TestBusFanOut(t *testing.T) {
	bus := NewChangeBus(nil)

	var a, b int
	unsubA := bus.Subscribe(func(Event) { a++ })
	defer unsubA()
	unsubB := bus.Subscribe(func(Event) { b++ })
	defer unsubB()

	bus.Publish(Event{Kind: KindBalanceChanged})
	bus.Publish(Event{Kind: KindCardAdded})

	if a != 2 || b != 2 {
		t.Fatalf("deliveries a=%d b=%d, want 2/2", a, b)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewChangeBus(nil)

	var n int
	unsub := bus.Subscribe(func(Event) { n++ })
	bus.Publish(Event{Kind: KindBalanceChanged})
	unsub()
	unsub() // second call is harmless
	bus.Publish(Event{Kind: KindBalanceChanged})

	if n != 1 {
		t.Fatalf("deliveries after unsubscribe = %d, want 1", n)
	}
}

func TestBusPanickingSubscriberDoesNotStarveOthers(t *testing.T) {
	bus := NewChangeBus(nil)

	defer bus.Subscribe(func(Event) { panic("boom") })()
	var n int
	defer bus.Subscribe(func(Event) { n++ })()

	bus.Publish(Event{Kind: KindBalanceChanged})

	if n != 1 {
		t.Fatalf("well-behaved subscriber got %d deliveries, want 1", n)
	}
}

func TestBusEventCarriesPayload(t *testing.T) {
	bus := NewChangeBus(nil)

	var got Event
	defer bus.Subscribe(func(ev Event) { got = ev })()

	want := Event{Kind: KindBalanceChanged, UserID: "u1", Balance: 16, Delta: 1, Reason: "creating a new food", Token: "123"}
	bus.Publish(want)

	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
