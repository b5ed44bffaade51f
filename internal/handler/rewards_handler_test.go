package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/ledger"
	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/rewards"
	"github.com/totalrecall/catalog-backend/internal/service"
	"github.com/totalrecall/catalog-backend/internal/storage"
)

func newRewardsFixture(t *testing.T) (rewards.Service, *rewards.LeaderboardObserver) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	store := ledger.NewPointsStore(storage.NewMemoryMedium(), logger)
	bus := rewards.NewChangeBus(logger)
	svc := rewards.NewService(store, bus, nil, logger, rewards.ServiceConfig{DisableRedundantEmit: true})
	lb := rewards.NewLeaderboardObserver(store, bus, logger, rewards.ReconcilerConfig{
		BurstDelays:    []time.Duration{},
		DebounceWindow: time.Millisecond,
	})
	lb.Start()
	t.Cleanup(lb.Stop)
	return svc, lb
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestGetMineRequiresActor(t *testing.T) {
	svc, lb := newRewardsFixture(t)
	h := NewRewardsHandler(svc, lb, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me/rewards", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetMine(c); err != nil {
		t.Fatalf("GetMine: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestGetMineReturnsBalanceTierAndToken(t *testing.T) {
	svc, lb := newRewardsFixture(t)
	h := NewRewardsHandler(svc, lb, nil)

	svc.AddPoints("ana", 120, "testing")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me/rewards", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "ana")

	if err := h.GetMine(c); err != nil {
		t.Fatalf("GetMine: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	var body struct {
		UserID      string `json:"userId"`
		Balance     int    `json:"balance"`
		Tier        string `json:"tier"`
		ChangeToken string `json:"changeToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != "ana" || body.Balance != 120 {
		t.Fatalf("body = %+v", body)
	}
	if body.Tier != rewards.TierSatisfactory {
		t.Fatalf("tier = %q, want %q", body.Tier, rewards.TierSatisfactory)
	}
	if body.ChangeToken == "" {
		t.Fatal("changeToken empty after an award")
	}
}

// fakeUserDirectory answers List from a fixed set and counts the reads.
type fakeUserDirectory struct {
	users     []model.User
	listCalls int
}

func (d *fakeUserDirectory) Get(_ context.Context, uid string) (*model.User, error) {
	for _, u := range d.users {
		if u.UID == uid {
			return &u, nil
		}
	}
	return nil, service.ErrNotFound
}

func (d *fakeUserDirectory) List(context.Context) ([]model.User, error) {
	d.listCalls++
	return d.users, nil
}

func (d *fakeUserDirectory) Ensure(_ context.Context, uid, name string) (*model.User, error) {
	return &model.User{UID: uid, Name: name}, nil
}

func TestLeaderboardResolvesNamesWithOneDirectoryRead(t *testing.T) {
	svc, lb := newRewardsFixture(t)
	dir := &fakeUserDirectory{users: []model.User{
		{UID: "ana", Name: "Ana"},
		{UID: "bruno", Name: "Bruno"},
	}}
	h := NewRewardsHandler(svc, lb, dir)

	svc.AddPoints("ana", 30, "testing")
	svc.AddPoints("bruno", 10, "testing")

	deadline := time.Now().Add(2 * time.Second)
	for len(lb.Rows()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("leaderboard never converged: %v", lb.Rows())
		}
		time.Sleep(5 * time.Millisecond)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rewards/leaderboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Leaderboard(c); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	var body struct {
		Leaderboard []leaderboardEntry `json:"leaderboard"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Leaderboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(body.Leaderboard))
	}
	if body.Leaderboard[0].Name != "Ana" || body.Leaderboard[1].Name != "Bruno" {
		t.Fatalf("names = %q, %q", body.Leaderboard[0].Name, body.Leaderboard[1].Name)
	}
	if dir.listCalls != 1 {
		t.Fatalf("directory reads = %d, want 1", dir.listCalls)
	}
}

func TestLeaderboardRanksWithFallbackNames(t *testing.T) {
	svc, lb := newRewardsFixture(t)
	h := NewRewardsHandler(svc, lb, nil)

	svc.AddPoints("ana", 30, "testing")
	svc.AddPoints("bruno", 10, "testing")

	deadline := time.Now().Add(2 * time.Second)
	for len(lb.Rows()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("leaderboard never converged: %v", lb.Rows())
		}
		time.Sleep(5 * time.Millisecond)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rewards/leaderboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Leaderboard(c); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	var body struct {
		Leaderboard []leaderboardEntry `json:"leaderboard"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Leaderboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(body.Leaderboard))
	}
	first := body.Leaderboard[0]
	if first.UserID != "ana" || first.Rank != 1 || first.Name != "ana" {
		t.Fatalf("first row = %+v", first)
	}
}
