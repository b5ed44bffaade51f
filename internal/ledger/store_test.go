package ledger

import (
	"strconv"
	"testing"

	"github.com/totalrecall/catalog-backend/internal/storage"
)

func TestReadUnknownUserDefaultsToZero(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)

	if got := s.Read("never-seen-id"); got != 0 {
		t.Fatalf("Read = %d, want 0", got)
	}
	// A read must not create a persisted entry.
	if all := s.ReadAll(); len(all) != 0 {
		t.Fatalf("ReadAll after read = %v, want empty", all)
	}
}

func TestWriteThenRead(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)

	if err := s.Write("u1", 42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := s.Read("u1"); got != 42 {
		t.Fatalf("Read = %d, want 42", got)
	}
}

func TestWriteClampsNegativeBalance(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)

	if err := s.Write("u1", -5); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := s.Read("u1"); got != 0 {
		t.Fatalf("Read = %d, want 0", got)
	}
}

func TestWriteEmptyUserRejected(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)
	if err := s.Write("", 1); err == nil {
		t.Fatalf("Write with empty user id succeeded")
	}
}

func TestReadAllReturnsSnapshot(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)
	if err := s.Write("u1", 10); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap := s.ReadAll()
	snap["u1"] = 999
	snap["intruder"] = 1

	if got := s.Read("u1"); got != 10 {
		t.Fatalf("store mutated through snapshot: Read = %d", got)
	}
	if got := s.Read("intruder"); got != 0 {
		t.Fatalf("store mutated through snapshot: intruder = %d", got)
	}
}

func TestChangeTokensAdvanceMonotonically(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)

	if tok := s.ChangeToken(); tok != "" {
		t.Fatalf("fresh store has token %q", tok)
	}

	var prev int64
	for i := 1; i <= 5; i++ {
		if err := s.Write("u1", i); err != nil {
			t.Fatalf("Write: %v", err)
		}
		tok, err := strconv.ParseInt(s.ChangeToken(), 10, 64)
		if err != nil {
			t.Fatalf("token not numeric: %v", err)
		}
		if tok <= prev {
			t.Fatalf("token %d not greater than previous %d", tok, prev)
		}
		prev = tok
	}
}

func TestPerUserChangeToken(t *testing.T) {
	s := NewPointsStore(storage.NewMemoryMedium(), nil)

	if err := s.Write("u1", 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if tok := s.UserChangeToken("u1"); tok == "" || tok != s.ChangeToken() {
		t.Fatalf("u1 token = %q, global = %q", tok, s.ChangeToken())
	}
	if tok := s.UserChangeToken("u2"); tok != "" {
		t.Fatalf("untouched user has token %q", tok)
	}

	before := s.UserChangeToken("u1")
	if err := s.Write("u2", 2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := s.UserChangeToken("u1"); got != before {
		t.Fatalf("u1 token moved on u2 write: %q -> %q", before, got)
	}
}

func TestCorruptLedgerFailsOpen(t *testing.T) {
	m := storage.NewMemoryMedium()
	if err := m.Set(LedgerKey, "][ not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s := NewPointsStore(m, nil)

	if got := s.Read("u1"); got != 0 {
		t.Fatalf("Read over corrupt ledger = %d", got)
	}
	if all := s.ReadAll(); len(all) != 0 {
		t.Fatalf("ReadAll over corrupt ledger = %v", all)
	}

	// Next write heals the ledger.
	if err := s.Write("u1", 7); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := s.Read("u1"); got != 7 {
		t.Fatalf("Read after heal = %d", got)
	}
}
