package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/popup"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

const seatingURL = "https://www.amctheatres.com/showtimes/123/seats"

const snapshot = `<html><body>
<h1 class="headline">Nosferatu</h1>
<ul><li>AMC Empire 25</li><li>Monday, February 17, 2025</li><li>9:45 PM</li></ul>
<button class="seat">E1</button>
<button class="seat cursor-not-allowed">E2</button>
<button class="seat cursor-not-allowed">E3</button>
</body></html>`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seats.html")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))
	return path
}

// backend records submitted requests and answers with resp.
func backend(t *testing.T, resp api.NotificationResponse, got *[]api.NotificationRequest) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.POST("/notifications", func(c echo.Context) error {
		var req api.NotificationRequest
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		*got = append(*got, req)
		return c.JSON(http.StatusCreated, resp)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func opts(t *testing.T, backendURL string) options {
	return options{
		url:         seatingURL,
		snapshot:    writeSnapshot(t),
		backend:     backendURL,
		bookingHost: api.DefaultBookingHost,
		scanOpts:    []scanner.Option{scanner.WithSettleDelay(0)},
	}
}

func TestRunSomeSeatsAvailable(t *testing.T) {
	var got []api.NotificationRequest
	srv := backend(t, api.Created(1), &got)
	o := opts(t, srv.URL)
	o.seats = "E1-E2"
	o.email = "me@example.com"

	var out bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), o, &out))
	assert.Equal(t, "The following seats are already available: E1\n", out.String())
	assert.Empty(t, got)
}

func TestRunSubscribesOccupiedSeat(t *testing.T) {
	var got []api.NotificationRequest
	srv := backend(t, api.Created(1), &got)
	o := opts(t, srv.URL)
	o.seats = "e2"
	o.email = " me@example.com "

	var out bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), o, &out))
	assert.Equal(t, popup.MsgSeatOccupied+"\nWe'll notify me@example.com when seat E2 becomes available.\n", out.String())

	require.Len(t, got, 1)
	assert.Equal(t, []string{"E2"}, got[0].SeatNumbers)
	assert.Equal(t, "AMC Empire 25", got[0].Theater)
	assert.Equal(t, "Nosferatu", got[0].Movie)
	assert.Equal(t, seatingURL, got[0].URL)
	assert.True(t, got[0].AreSpecificallyRequested)
}

func TestRunAnySeat(t *testing.T) {
	var got []api.NotificationRequest
	srv := backend(t, api.NotificationResponse{Exists: true}, &got)
	o := opts(t, srv.URL)
	o.anySeat = true
	o.email = "me@example.com"

	var out bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), o, &out))
	assert.Contains(t, out.String(), "Found 2 occupied seats.")
	assert.Contains(t, out.String(), popup.MsgAlreadyShowing)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"E2", "E3"}, got[0].SeatNumbers)
	assert.False(t, got[0].AreSpecificallyRequested)
}

func TestRunInputErrors(t *testing.T) {
	o := opts(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), o, &out))
	assert.Equal(t, msgNoSeats+"\n", out.String())

	out.Reset()
	o.seats = "F7-G9"
	assert.Equal(t, 1, run(context.Background(), o, &out))
	assert.NotEmpty(t, out.String())

	out.Reset()
	o.seats = "E1"
	o.url = "https://example.com/showtimes/123/seats"
	assert.Equal(t, 1, run(context.Background(), o, &out))
	assert.Equal(t, popup.MsgWrongPage+"\n", out.String())

	out.Reset()
	o.url = ""
	assert.Equal(t, 2, run(context.Background(), o, &out))
}

func TestRunWrongPageNeverStartsChrome(t *testing.T) {
	o := options{
		url:         "https://www.amctheatres.com/movies/dune",
		seats:       "F7",
		backend:     "http://127.0.0.1:1",
		bookingHost: api.DefaultBookingHost,
		headless:    true,
	}

	var out bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), o, &out))
	assert.Equal(t, popup.MsgWrongPage+"\n", out.String())
}
