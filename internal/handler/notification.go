package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// NotificationHandler subscribes e-mail addresses to seats.
type NotificationHandler struct {
	Showtimes       *repository.ShowtimeRepo
	Notifications   *repository.NotificationRepo
	BookingHost     string // host seating URLs must be on
	DefaultTimezone string // zone stored for theaters seen for the first time
	Now             func() time.Time
}

// NewNotificationHandler wires the handler.  Both repositories must be
// non-nil.
func NewNotificationHandler(showtimes *repository.ShowtimeRepo, notifications *repository.NotificationRepo, bookingHost, defaultTZ string) *NotificationHandler {
	if showtimes == nil || notifications == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	if bookingHost == "" {
		bookingHost = api.DefaultBookingHost
	}
	return &NotificationHandler{
		Showtimes:       showtimes,
		Notifications:   notifications,
		BookingHost:     bookingHost,
		DefaultTimezone: defaultTZ,
		Now:             time.Now,
	}
}

// Create handles POST /notifications.  It records one notification per
// seat that the address does not watch yet and answers {"created": n}, or
// {"exists": true} when every seat was already watched.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req api.NotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	for i, s := range req.SeatNumbers {
		req.SeatNumbers[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	url, err := api.SeatingURL(req.URL, h.BookingHost)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is not a seating page"})
	}
	seats, err := seat.ParseList(req.SeatNumbers)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat numbers"})
	}

	ctx := c.Request().Context()
	tx, err := h.Showtimes.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	theaterID, err := h.Showtimes.UpsertTheaterTx(ctx, tx, strings.TrimSpace(req.Theater), h.DefaultTimezone)
	if err != nil {
		log.Printf("notifications: upsert theater: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	movieID, err := h.Showtimes.UpsertMovieTx(ctx, tx, strings.TrimSpace(req.Movie), h.Now())
	if err != nil {
		log.Printf("notifications: upsert movie: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtimeID, err := h.Showtimes.UpsertShowtimeTx(ctx, tx, movieID, theaterID, req.Showtime, url)
	if err != nil {
		log.Printf("notifications: upsert showtime: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	created, err := h.Notifications.CreateMissingTx(ctx, tx, req.Email, showtimeID, seats.Strings(), req.AreSpecificallyRequested)
	if err != nil {
		log.Printf("notifications: insert: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if created == 0 {
		return c.JSON(http.StatusOK, api.NotificationResponse{Exists: true})
	}
	log.Printf("notifications: %s watches %d new seat(s) at %s", req.Email, created, url)
	return c.JSON(http.StatusCreated, api.Created(created))
}
