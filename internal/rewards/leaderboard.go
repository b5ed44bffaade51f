package rewards

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/totalrecall/catalog-backend/internal/ledger"
)

// LeaderboardRow is one ranked entry.
type LeaderboardRow struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"userId"`
	Balance int    `json:"balance"`
	Tier    string `json:"tier"`
}

// LeaderboardObserver maintains a ranked snapshot of every balance, kept
// converged with the ledger by the same reconciliation loop the counter
// uses. Rows sort descending by balance; ties keep first-seen order.
type LeaderboardObserver struct {
	store *ledger.PointsStore
	rec   *reconciler

	mu        sync.Mutex
	rows      []LeaderboardRow
	lastToken string
	// seen preserves the order user ids first appeared, for stable ties.
	seen      []string
	seenIndex map[string]int
}

func NewLeaderboardObserver(store *ledger.PointsStore, bus *ChangeBus, logger *slog.Logger, cfg ReconcilerConfig) *LeaderboardObserver {
	o := &LeaderboardObserver{store: store, seenIndex: make(map[string]int)}
	o.rec = newReconciler(cfg, bus, logger, o.refresh)
	return o
}

func (o *LeaderboardObserver) Start() { o.rec.start() }
func (o *LeaderboardObserver) Stop()  { o.rec.stop() }

func (o *LeaderboardObserver) refresh() {
	o.mu.Lock()
	defer o.mu.Unlock()

	token := o.store.ChangeToken()
	if token != "" && token == o.lastToken {
		return
	}
	balances := o.store.ReadAll()

	// Register newcomers in a deterministic order.
	newcomers := make([]string, 0)
	for id := range balances {
		if _, ok := o.seenIndex[id]; !ok {
			newcomers = append(newcomers, id)
		}
	}
	sort.Strings(newcomers)
	for _, id := range newcomers {
		o.seenIndex[id] = len(o.seen)
		o.seen = append(o.seen, id)
	}

	rows := make([]LeaderboardRow, 0, len(balances))
	for _, id := range o.seen {
		b, ok := balances[id]
		if !ok {
			continue
		}
		rows = append(rows, LeaderboardRow{UserID: id, Balance: b, Tier: Tier(b)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Balance > rows[j].Balance
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	o.rows = rows
	o.lastToken = token
}

// Rows returns a copy of the current ranking.
func (o *LeaderboardObserver) Rows() []LeaderboardRow {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]LeaderboardRow, len(o.rows))
	copy(out, o.rows)
	return out
}
