package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/totalrecall/catalog-backend/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type userResponse struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// List returns the app-user directory, used for recommendation recipient
// pickers and leaderboard names.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to list users"))
	}
	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{UID: u.UID, Name: u.Name})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": resp})
}

type registerRequest struct {
	Name string `json:"name"`
}

// Register ensures the acting user exists in the directory.
func (h *UserHandler) Register(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Ensure(c.Request().Context(), uid, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to register user"))
	}
	return c.JSON(http.StatusOK, userResponse{UID: u.UID, Name: u.Name})
}
