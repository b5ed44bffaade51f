package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/lookup"
	"github.com/totalrecall/catalog-backend/internal/model"
)

type LookupHandler struct {
	provider lookup.Provider
}

func NewLookupHandler(provider lookup.Provider) *LookupHandler {
	return &LookupHandler{provider: provider}
}

type lookupRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

func (h *LookupHandler) Suggest(c echo.Context) error {
	var req lookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if !model.ValidCardKind(req.Kind) {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid kind"))
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "title is required"))
	}
	s, err := h.provider.Suggest(c.Request().Context(), req.Kind, req.Title)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "lookup failed"))
	}
	return c.JSON(http.StatusOK, s)
}
