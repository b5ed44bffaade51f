package rewards

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/totalrecall/catalog-backend/internal/ledger"
)

// Notifier delivers the user-visible "you earned points" message (the toast
// equivalent). Implementations are best-effort: a failed notification must
// never affect ledger correctness, so the interface returns nothing.
type Notifier interface {
	NotifyPoints(userID string, amount int, reason string, total int)
}

// Service is the only writer path to the points ledger. All operations are
// fire-and-forget from the caller's perspective: rewards are a decorative
// layer and must never block or fail the primary action that triggered
// them, so errors are absorbed and logged here.
type Service interface {
	// GetBalance returns the current balance, 0 for unknown or empty ids.
	GetBalance(userID string) int
	// AddPoints applies a delta (clamped so the balance never goes below
	// zero) and returns the new balance. Empty userID is a logged no-op.
	AddPoints(userID string, amount int, reason string) int
	// GetAllBalances returns a snapshot of every balance, for leaderboards.
	GetAllBalances() map[string]int
	// ChangeToken returns the user's last change token, empty if the user
	// has never been awarded points.
	ChangeToken(userID string) string
}

// ServiceConfig carries the tunables; the zero value selects defaults.
type ServiceConfig struct {
	// RedundantEmitDelay is how long after a write the bus event is
	// re-published. The legacy app deliberately over-notified, staggering
	// several events per write so a consumer that missed the first still
	// converged; the re-emit preserves that robustness affordance.
	// Consumers debounce, so the duplicate costs one collapsed re-read.
	RedundantEmitDelay time.Duration
	// DisableRedundantEmit turns the re-emit off (tests).
	DisableRedundantEmit bool
}

type service struct {
	store    *ledger.PointsStore
	bus      *ChangeBus
	notifier Notifier
	logger   *slog.Logger
	cfg      ServiceConfig

	// mu serializes every read-modify-write so two same-process AddPoints
	// calls can never lose an update to each other. Cross-process writers
	// remain last-writer-wins on the shared ledger; that is an inherited
	// limitation of the original design, kept deliberately.
	mu sync.Mutex
}

func NewService(store *ledger.PointsStore, bus *ChangeBus, notifier Notifier, logger *slog.Logger, cfg ServiceConfig) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedundantEmitDelay <= 0 {
		cfg.RedundantEmitDelay = 250 * time.Millisecond
	}
	return &service{store: store, bus: bus, notifier: notifier, logger: logger, cfg: cfg}
}

func (s *service) GetBalance(userID string) int {
	if userID == "" {
		s.logger.Warn("rewards: GetBalance with empty user id")
		return 0
	}
	return s.store.Read(userID)
}

func (s *service) AddPoints(userID string, amount int, reason string) int {
	if userID == "" {
		s.logger.Warn("rewards: AddPoints with empty user id", "amount", amount, "reason", reason)
		return 0
	}

	s.mu.Lock()
	current := s.store.Read(userID)
	newBalance := current + amount
	if newBalance < 0 {
		newBalance = 0
	}
	err := s.store.Write(userID, newBalance)
	token := s.store.UserChangeToken(userID)
	s.mu.Unlock()

	if err != nil {
		// Absorbed: the triggering action (card create, recommendation)
		// must not observe a reward failure.
		s.logger.Error("rewards: ledger write failed", "user", userID, "amount", amount, "err", err)
		return current
	}

	if amount > 0 && s.notifier != nil {
		s.notifier.NotifyPoints(userID, amount, reason, newBalance)
	}
	s.logger.Info("rewards: points added",
		"user", userID, "amount", amount, "reason", reason, "balance", newBalance)

	ev := Event{
		Kind:    KindBalanceChanged,
		UserID:  userID,
		Balance: newBalance,
		Delta:   newBalance - current,
		Reason:  reason,
		Token:   token,
	}
	s.bus.Publish(ev)
	if !s.cfg.DisableRedundantEmit {
		time.AfterFunc(s.cfg.RedundantEmitDelay, func() { s.bus.Publish(ev) })
	}

	return newBalance
}

func (s *service) GetAllBalances() map[string]int {
	return s.store.ReadAll()
}

func (s *service) ChangeToken(userID string) string {
	return s.store.UserChangeToken(userID)
}

// PointsMessage renders the notification body shown for a successful award.
func PointsMessage(amount int, reason string, total int) string {
	return fmt.Sprintf("earned %d points for %s, total now %d", amount, reason, total)
}
