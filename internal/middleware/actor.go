package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ActorHeader names the header carrying the acting user's id. There is no
// authentication layer; the client states who is acting and handlers read
// the id from the echo context instead of any ambient global.
const ActorHeader = "X-User-ID"

// Actor copies the acting user id from the request header into the echo
// context under "uid". Handlers that require an actor reject requests where
// it is missing.
func Actor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
		if uid != "" {
			c.Set("uid", uid)
		}
		return next(c)
	}
}
