package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/middleware"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/utils"
)

// UnsubscribeHandler serves the links embedded in alert e-mails.  It runs
// behind middleware.UnsubscribeToken.
type UnsubscribeHandler struct {
	Notifications *repository.NotificationRepo
}

// NewUnsubscribeHandler wires the handler.
func NewUnsubscribeHandler(notifications *repository.NotificationRepo) *UnsubscribeHandler {
	if notifications == nil {
		panic("nil repository passed to NewUnsubscribeHandler")
	}
	return &UnsubscribeHandler{Notifications: notifications}
}

// Unsubscribe handles GET /unsubscribe/:token.  A seat token removes one
// notification; a showing token removes all of the address's
// notifications for that showtime.  Following a link twice answers 404.
func (h *UnsubscribeHandler) Unsubscribe(c echo.Context) error {
	claims, ok := middleware.Unsubscribe(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired link"})
	}
	ctx := c.Request().Context()

	var removed int64
	var err error
	switch claims.Scope {
	case utils.ScopeSeat:
		err = h.Notifications.DeleteSeat(ctx, claims.NotificationID, claims.Email)
		removed = 1
	case utils.ScopeShowing:
		removed, err = h.Notifications.DeleteShowing(ctx, claims.Email, claims.ShowtimeID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown unsubscribe scope"})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "already unsubscribed"})
	}
	if err != nil {
		log.Printf("unsubscribe: %s scope=%s: %v", claims.Email, claims.Scope, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}
