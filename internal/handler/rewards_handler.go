package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/rewards"
	"github.com/totalrecall/catalog-backend/internal/service"
)

// RewardsHandler serves balances, tiers, and the leaderboard. The
// leaderboard comes from the observer's reconciled snapshot rather than a
// fresh ledger read per request; it converges within the debounce window.
type RewardsHandler struct {
	svc         rewards.Service
	leaderboard *rewards.LeaderboardObserver
	users       service.UserService
}

func NewRewardsHandler(svc rewards.Service, leaderboard *rewards.LeaderboardObserver, users service.UserService) *RewardsHandler {
	return &RewardsHandler{svc: svc, leaderboard: leaderboard, users: users}
}

// GetMine returns the acting user's balance, tier and change token. The
// token lets a client tell a genuinely fresh balance from a repeated one.
func (h *RewardsHandler) GetMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	balance := h.svc.GetBalance(uid)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"userId":      uid,
		"balance":     balance,
		"tier":        rewards.Tier(balance),
		"changeToken": h.svc.ChangeToken(uid),
	})
}

type leaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
	Tier    string `json:"tier"`
}

// Leaderboard returns the ranked balances with display names resolved from
// the user directory. A missing directory row falls back to the raw id.
func (h *RewardsHandler) Leaderboard(c echo.Context) error {
	rows := h.leaderboard.Rows()

	// One directory read resolves every display name. A missing or
	// unreachable directory must not take the leaderboard down; the raw id
	// stands in for the name.
	names := map[string]string{}
	if h.users != nil {
		if users, err := h.users.List(c.Request().Context()); err == nil {
			for _, u := range users {
				names[u.UID] = u.Name
			}
		}
	}

	resp := make([]leaderboardEntry, 0, len(rows))
	for _, r := range rows {
		name := r.UserID
		if n, ok := names[r.UserID]; ok && n != "" {
			name = n
		}
		resp = append(resp, leaderboardEntry{
			Rank:    r.Rank,
			UserID:  r.UserID,
			Name:    name,
			Balance: r.Balance,
			Tier:    r.Tier,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"leaderboard": resp,
	})
}
