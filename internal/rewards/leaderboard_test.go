package rewards

import (
	"testing"
	"time"

	"github.com/totalrecall/catalog-backend/internal/ledger"
	"github.com/totalrecall/catalog-backend/internal/storage"
)

func TestLeaderboardRanksDescending(t *testing.T) {
	store := ledger.NewPointsStore(storage.NewMemoryMedium(), nil)
	bus := NewChangeBus(nil)
	svc := NewService(store, bus, nil, nil, ServiceConfig{DisableRedundantEmit: true})

	svc.AddPoints("alice", 120, "seed")
	svc.AddPoints("bob", 15, "seed")
	svc.AddPoints("carol", 210, "seed")

	o := NewLeaderboardObserver(store, bus, nil, quietLoop(time.Millisecond))
	o.Start()
	defer o.Stop()

	rows := o.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	wantOrder := []struct {
		user string
		bal  int
		tier string
	}{
		{"carol", 210, TierExcellent},
		{"alice", 120, TierSatisfactory},
		{"bob", 15, TierNeedsImprovement},
	}
	for i, w := range wantOrder {
		r := rows[i]
		if r.UserID != w.user || r.Balance != w.bal || r.Tier != w.tier || r.Rank != i+1 {
			t.Fatalf("row %d = %+v, want %+v rank %d", i, r, w, i+1)
		}
	}
}

func TestLeaderboardTiesKeepFirstSeenOrder(t *testing.T) {
	store := ledger.NewPointsStore(storage.NewMemoryMedium(), nil)
	bus := NewChangeBus(nil)

	o := NewLeaderboardObserver(store, bus, nil, quietLoop(time.Millisecond))
	o.Start()
	defer o.Stop()

	svc := NewService(store, bus, nil, nil, ServiceConfig{DisableRedundantEmit: true})
	svc.AddPoints("zoe", 50, "seed")

	waitFor(t, "first row", func() bool { return len(o.Rows()) == 1 })

	svc.AddPoints("adam", 50, "seed")

	waitFor(t, "second row", func() bool { return len(o.Rows()) == 2 })
	rows := o.Rows()
	// zoe appeared first; the tie must not reorder her below adam.
	if rows[0].UserID != "zoe" || rows[1].UserID != "adam" {
		t.Fatalf("tie order = [%s %s], want [zoe adam]", rows[0].UserID, rows[1].UserID)
	}
}

func TestLeaderboardConvergesOnUpdates(t *testing.T) {
	store := ledger.NewPointsStore(storage.NewMemoryMedium(), nil)
	bus := NewChangeBus(nil)
	svc := NewService(store, bus, nil, nil, ServiceConfig{DisableRedundantEmit: true})

	o := NewLeaderboardObserver(store, bus, nil, quietLoop(time.Millisecond))
	o.Start()
	defer o.Stop()

	svc.AddPoints("bob", 10, "seed")
	svc.AddPoints("alice", 5, "seed")
	waitFor(t, "initial order", func() bool {
		rows := o.Rows()
		return len(rows) == 2 && rows[0].UserID == "bob"
	})

	svc.AddPoints("alice", 100, "surge")
	waitFor(t, "alice to take the lead", func() bool {
		rows := o.Rows()
		return len(rows) == 2 && rows[0].UserID == "alice" && rows[0].Balance == 105
	})
}
