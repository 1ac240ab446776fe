package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-alert/internal/config"
	"github.com/iliyamo/cinema-seat-alert/internal/handler"
	"github.com/iliyamo/cinema-seat-alert/internal/middleware"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

type stubScanner struct{}

func (stubScanner) Scan(context.Context, string, scanner.Request) (scanner.Response, error) {
	return scanner.Response{OccupiedSeats: []string{}, AvailableSeats: []string{"A1"}}, nil
}

func TestRoutes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)
	cache := middleware.NewRedisCache(config.CacheConfig{}, nil)

	RegisterRoutes(e, db)
	RegisterNotifications(e,
		handler.NewNotificationHandler(repository.NewShowtimeRepo(db), repository.NewNotificationRepo(db), "", "UTC"),
		handler.NewUnsubscribeHandler(repository.NewNotificationRepo(db)),
		"secret", limiter)
	RegisterScan(e, handler.NewScanHandler(stubScanner{}, ""), limiter, cache)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/notifications", `{"email":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/unsubscribe/nope", "").Code)

	rec := do(http.MethodGet, "/v1/seats?url=https://www.amctheatres.com/showtimes/1/seats&seats=A1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"availableSeats":["A1"]`)
}
