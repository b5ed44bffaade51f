package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/service"
)

type RecommendationHandler struct {
	svc service.RecommendationService
}

func NewRecommendationHandler(svc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

type sendRecommendationRequest struct {
	CardID       uint64 `json:"cardId"`
	RecipientUID string `json:"recipientUid"`
	Message      string `json:"message"`
}

type RecommendationResponse struct {
	ID           uint64 `json:"id"`
	CardID       uint64 `json:"cardId"`
	SenderUID    string `json:"senderUid"`
	RecipientUID string `json:"recipientUid"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Read         bool   `json:"read"`
	CreatedAt    string `json:"createdAt"`
}

func toRecommendationResponse(r model.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:           r.ID,
		CardID:       r.CardID,
		SenderUID:    r.SenderUID,
		RecipientUID: r.RecipientUID,
		Title:        r.Title,
		Message:      r.Message,
		Read:         r.ReadAt != nil,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *RecommendationHandler) Send(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req sendRecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rec, err := h.svc.Send(c.Request().Context(), req.CardID, uid, req.RecipientUID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "you can only recommend your own cards"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toRecommendationResponse(*rec))
}

func (h *RecommendationHandler) ListReceived(c echo.Context) error {
	return h.list(c, h.svc.ListReceived)
}

func (h *RecommendationHandler) ListSent(c echo.Context) error {
	return h.list(c, h.svc.ListSent)
}

func (h *RecommendationHandler) list(c echo.Context, fetch func(ctx context.Context, uid string, limit int) ([]model.Recommendation, error)) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit := 50
	if lStr := c.QueryParam("limit"); lStr != "" {
		if lParsed, err := strconv.Atoi(lStr); err == nil && lParsed > 0 {
			limit = lParsed
		}
	}
	list, err := fetch(c.Request().Context(), uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch recommendations"))
	}
	resp := make([]RecommendationResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, toRecommendationResponse(r))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"recommendations": resp,
	})
}

func (h *RecommendationHandler) MarkRead(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), id, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
