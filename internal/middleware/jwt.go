package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/utils"
)

// UnsubscribeToken verifies the signed token in the :token path parameter
// and stores its claims in the context for the handler.  The secret must
// match the one the mailer signs links with.
func UnsubscribeToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param("token")
			if raw == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing token"})
			}
			claims, err := utils.ParseUnsubscribeToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired link"})
			}
			c.Set(unsubscribeKey, claims)
			return next(c)
		}
	}
}
