package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestActor(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantUID interface{}
	}{
		{"sets uid from header", "ana", "ana"},
		{"trims whitespace", "  ana  ", "ana"},
		{"missing header leaves uid unset", "", nil},
		{"blank header leaves uid unset", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(ActorHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var got interface{}
			h := Actor(func(c echo.Context) error {
				got = c.Get("uid")
				return nil
			})
			if err := h(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if got != tt.wantUID {
				t.Fatalf("uid = %v, want %v", got, tt.wantUID)
			}
		})
	}
}
