package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// PageScanner scans one seating page.  *scanner.Remote implements it.
type PageScanner interface {
	Scan(ctx context.Context, url string, req scanner.Request) (scanner.Response, error)
}

// ScanTimeout bounds one /v1/seats request, page load included.
const ScanTimeout = 45 * time.Second

// ScanHandler runs the seat scanner on behalf of clients that cannot run
// it in their own browser.
type ScanHandler struct {
	Scanner     PageScanner
	BookingHost string
}

// NewScanHandler wires the handler.
func NewScanHandler(s PageScanner, bookingHost string) *ScanHandler {
	if bookingHost == "" {
		bookingHost = api.DefaultBookingHost
	}
	return &ScanHandler{Scanner: s, BookingHost: bookingHost}
}

// Seats handles GET /v1/seats?url=…&seats=A1,B2-B4 or ?url=…&all=true and
// answers with the scanner response.  Scanner errors answer 422 with the
// scanner's message so they are never cached.
func (h *ScanHandler) Seats(c echo.Context) error {
	url, err := api.SeatingURL(c.QueryParam("url"), h.BookingHost)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is not a seating page"})
	}

	req := scanner.Request{Action: scanner.ActionCheckSeat}
	if all, _ := strconv.ParseBool(c.QueryParam("all")); all {
		req.Action = scanner.ActionGetAllOccupiedSeats
	} else {
		seats, err := seat.ParseRequest(c.QueryParam("seats"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": seat.InvalidInputMessage})
		}
		req.SeatNumbers = seats.Strings()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), ScanTimeout)
	defer cancel()
	resp, err := h.Scanner.Scan(ctx, url, req)
	if err != nil {
		log.Printf("scan: %s: %v", url, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": scanner.MsgScanFailed})
	}
	if resp.Failed() {
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
