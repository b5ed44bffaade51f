package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/totalrecall/catalog-backend/internal/storage"
)

// Well-known keys in the storage medium. The per-user token key pattern is
// load-bearing: observers check a single user's staleness without
// deserializing the whole ledger, so the scheme must stay stable.
const (
	LedgerKey      = "trc_rewards"
	ChangeTokenKey = "trc_rewards_last_change"
)

// UserChangeTokenKey returns the per-user change-token key.
func UserChangeTokenKey(userID string) string {
	return fmt.Sprintf("user_%s_last_reward", userID)
}

// PointsStore is the durable userID→balance ledger. It is the single source
// of truth for reward balances; everything else (events, cached displays)
// is a hint that eventually reconciles against it.
//
// Reads never fail: an unknown user reads as 0 and a malformed persisted
// ledger reads as empty. A read never creates a persisted entry.
type PointsStore struct {
	mu     sync.Mutex
	medium storage.Medium
	logger *slog.Logger

	lastToken     int64
	warnedCorrupt bool
}

func NewPointsStore(medium storage.Medium, logger *slog.Logger) *PointsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PointsStore{medium: medium, logger: logger}
}

// Read returns the balance for userID, 0 if the user has never earned
// points. No side effects.
func (s *PointsStore) Read(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLedger()[userID]
}

// ReadAll returns a snapshot copy of the whole ledger. Callers may mutate
// the returned map freely.
func (s *PointsStore) ReadAll() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLedger()
}

// Write replaces userID's balance, clamping at zero, and bumps both the
// global and the per-user change tokens.
func (s *PointsStore) Write(userID string, balance int) error {
	if userID == "" {
		return fmt.Errorf("ledger: empty user id")
	}
	if balance < 0 {
		balance = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLedger()
	data[userID] = balance
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.medium.Set(LedgerKey, string(raw)); err != nil {
		return err
	}

	token := s.nextToken()
	if err := s.medium.Set(ChangeTokenKey, token); err != nil {
		return err
	}
	return s.medium.Set(UserChangeTokenKey(userID), token)
}

// ChangeToken returns the last global change token, empty if nothing has
// ever been written.
func (s *PointsStore) ChangeToken() string {
	v, _ := s.medium.Get(ChangeTokenKey)
	return v
}

// UserChangeToken returns the last change token for a single user.
func (s *PointsStore) UserChangeToken(userID string) string {
	v, _ := s.medium.Get(UserChangeTokenKey(userID))
	return v
}

// loadLedger deserializes the ledger value, failing open to an empty map on
// corruption. Caller holds s.mu.
func (s *PointsStore) loadLedger() map[string]int {
	raw, ok := s.medium.Get(LedgerKey)
	if !ok || raw == "" {
		return map[string]int{}
	}
	var data map[string]int
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		if !s.warnedCorrupt {
			s.warnedCorrupt = true
			s.logger.Warn("ledger: malformed ledger value, treating as empty", "err", err)
		}
		return map[string]int{}
	}
	s.warnedCorrupt = false
	if data == nil {
		data = map[string]int{}
	}
	return data
}

// nextToken produces a strictly increasing decimal UnixNano string. Two
// writes inside the same nanosecond (or a clock step backwards) still get
// distinct, ordered tokens. Caller holds s.mu.
func (s *PointsStore) nextToken() string {
	now := time.Now().UnixNano()
	if now <= s.lastToken {
		now = s.lastToken + 1
	}
	s.lastToken = now
	return strconv.FormatInt(now, 10)
}
