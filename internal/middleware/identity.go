package middleware

// identity.go holds the context keys shared between middleware and
// handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/utils"
)

const unsubscribeKey = "unsubscribe"

// Unsubscribe returns the claims stored by UnsubscribeToken.
func Unsubscribe(c echo.Context) (utils.UnsubscribeClaims, bool) {
	claims, ok := c.Get(unsubscribeKey).(utils.UnsubscribeClaims)
	return claims, ok
}
