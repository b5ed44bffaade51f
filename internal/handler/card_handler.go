package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/media"
	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/repository"
	"github.com/totalrecall/catalog-backend/internal/service"
)

// maxImageBytes caps card photo uploads.
const maxImageBytes = 5 << 20

// imageUploader is the slice of media.Uploader the handler needs.
type imageUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

type CardHandler struct {
	svc      service.CardService
	uploader imageUploader // nil when media is not configured
}

func NewCardHandler(svc service.CardService, uploader *media.Uploader) *CardHandler {
	h := &CardHandler{svc: svc}
	if uploader != nil {
		h.uploader = uploader
	}
	return h
}

type cardRequest struct {
	Kind     string  `json:"kind"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Rating   int     `json:"rating"`
	Notes    string  `json:"notes"`
	Location string  `json:"location"`
	ImageURL *string `json:"imageUrl"`
}

type CardResponse struct {
	ID        uint64  `json:"id"`
	OwnerUID  string  `json:"ownerUid"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Rating    int     `json:"rating"`
	Notes     string  `json:"notes"`
	Location  string  `json:"location"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toCardResponse(card model.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		OwnerUID:  card.OwnerUID,
		Kind:      card.Kind,
		Title:     card.Title,
		Category:  card.Category,
		Rating:    card.Rating,
		Notes:     card.Notes,
		Location:  card.Location,
		ImageURL:  card.ImageURL,
		CreatedAt: card.CreatedAt.Format(time.RFC3339),
		UpdatedAt: card.UpdatedAt.Format(time.RFC3339),
	}
}

func (r cardRequest) toInput() service.CardInput {
	return service.CardInput{
		Kind:     r.Kind,
		Title:    r.Title,
		Category: r.Category,
		Rating:   r.Rating,
		Notes:    r.Notes,
		Location: r.Location,
		ImageURL: r.ImageURL,
	}
}

func (h *CardHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	card, err := h.svc.Create(c.Request().Context(), uid, req.toInput())
	if err != nil {
		if errors.Is(err, repository.ErrDBNotReady) {
			return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("db_not_ready", "database not ready"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toCardResponse(*card))
}

func (h *CardHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	card, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch card"))
	}
	return c.JSON(http.StatusOK, toCardResponse(*card))
}

func (h *CardHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	filter := repository.CardFilter{
		Kind:     c.QueryParam("kind"),
		OwnerUID: c.QueryParam("owner"),
	}
	cards, total, err := h.svc.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		if errors.Is(err, repository.ErrDBNotReady) {
			return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("db_not_ready", "database not ready"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to list cards"))
	}
	resp := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, toCardResponse(card))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards": resp,
		"total": total,
	})
}

// ListMine lists the acting user's cards.
func (h *CardHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	cards, total, err := h.svc.List(c.Request().Context(), repository.CardFilter{OwnerUID: uid}, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to list cards"))
	}
	resp := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, toCardResponse(card))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards": resp,
		"total": total,
	})
}

func (h *CardHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	card, err := h.svc.Update(c.Request().Context(), id, uid, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your card"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toCardResponse(*card))
}

func (h *CardHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your card"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete card"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// UploadImage stores a card photo and records its public URL on the card.
func (h *CardHandler) UploadImage(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("media_disabled", "no storage bucket configured"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}

	// Ownership must be settled before anything touches the bucket: the
	// object path is derived from the card id, so an upload for someone
	// else's card would overwrite their photo even when the request is
	// ultimately rejected.
	card, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch card"))
	}
	if card.OwnerUID != uid {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your card"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing image file"))
	}
	if fileHeader.Size > maxImageBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, NewErrorResponse("too_large", "image exceeds 5MB"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read image"))
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil || len(data) > maxImageBytes {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read image"))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	publicURL, err := h.uploader.Upload(c.Request().Context(), media.CardObjectPath(id), contentType, data)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "upload failed"))
	}

	card, err = h.svc.SetImageURL(c.Request().Context(), id, uid, publicURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "card not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your card"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save image url"))
		}
	}
	return c.JSON(http.StatusOK, toCardResponse(*card))
}
