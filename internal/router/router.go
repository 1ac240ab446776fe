package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/handler"
	"github.com/iliyamo/cinema-seat-alert/internal/middleware"
)

// RegisterRoutes registers the unauthenticated probes.  /readyz also
// checks the database.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterNotifications registers the subscribe endpoint used by the
// popup and the unsubscribe links sent by the mailer.  limiter guards both.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler, u *handler.UnsubscribeHandler, unsubscribeSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/notifications", n.Create, limiter)
	e.GET("/unsubscribe/:token", u.Unsubscribe, limiter, middleware.UnsubscribeToken(unsubscribeSecret))
}

// RegisterScan registers the server-side seat scan.  Rate limiting runs
// before the cache so cached answers still count against the caller.
func RegisterScan(e *echo.Echo, s *handler.ScanHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(limiter)
	g.GET("/seats", s.Seats, cache)
}
