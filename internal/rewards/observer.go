package rewards

import (
	"log/slog"
	"sync"
	"time"

	"github.com/totalrecall/catalog-backend/internal/ledger"
)

// BalanceObserver keeps a locally displayed balance for one user converged
// with the ledger. Displays are decorative: a read that cannot improve on
// the last known good value simply leaves it in place, and there is no
// error state.
type BalanceObserver struct {
	userID string
	store  *ledger.PointsStore
	rec    *reconciler

	// CelebrationWindow is how long the celebrating flag stays up after a
	// balance increase. Cosmetic only.
	celebration time.Duration

	mu               sync.Mutex
	balance          int
	lastToken        string
	celebratingUntil time.Time
}

// NewBalanceObserver builds an observer for userID. Call Start to begin
// reconciling and Stop when the display goes away, or timers leak.
func NewBalanceObserver(userID string, store *ledger.PointsStore, bus *ChangeBus, logger *slog.Logger, cfg ReconcilerConfig, celebration time.Duration) *BalanceObserver {
	if celebration <= 0 {
		celebration = 2 * time.Second
	}
	o := &BalanceObserver{userID: userID, store: store, celebration: celebration}
	o.rec = newReconciler(cfg, bus, logger, o.refresh)
	return o
}

func (o *BalanceObserver) Start() { o.rec.start() }
func (o *BalanceObserver) Stop()  { o.rec.stop() }

// refresh performs one authoritative read. The per-user change token is the
// cheap staleness check: if it hasn't moved since the last read, the cached
// value is current and nothing is touched. Reads are serialized under the
// mutex, so a slow read can never clobber a newer completed one.
func (o *BalanceObserver) refresh() {
	o.mu.Lock()
	defer o.mu.Unlock()

	token := o.store.UserChangeToken(o.userID)
	if token != "" && token == o.lastToken {
		return
	}
	balance := o.store.Read(o.userID)
	if balance > o.balance {
		o.celebratingUntil = time.Now().Add(o.celebration)
	}
	o.balance = balance
	o.lastToken = token
}

// Balance returns the currently displayed balance.
func (o *BalanceObserver) Balance() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.balance
}

// Tier returns the tier label for the displayed balance.
func (o *BalanceObserver) Tier() string {
	return Tier(o.Balance())
}

// Celebrating reports whether the transient post-increase visual state is
// active.
func (o *BalanceObserver) Celebrating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return time.Now().Before(o.celebratingUntil)
}
