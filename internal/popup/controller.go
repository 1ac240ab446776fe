package popup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// Tab is a browser tab the controller can talk to.
type Tab interface {
	URL(ctx context.Context) (string, error)
	// Send delivers a request to the scanner in the tab.  It returns an
	// error wrapping scanner.ErrProbeMissing when no scanner is loaded.
	Send(ctx context.Context, req scanner.Request) (scanner.Response, error)
	// Inject loads the scanner into the tab.
	Inject(ctx context.Context) error
}

// Browser resolves the tab the user is looking at.
type Browser interface {
	ActiveTab(ctx context.Context) (Tab, error)
}

// Notifier submits notification requests to the backend.
type Notifier interface {
	Submit(ctx context.Context, req api.NotificationRequest) (api.NotificationResponse, error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has the usual local@domain.tld shape.
func ValidEmail(email string) bool { return emailPattern.MatchString(email) }

// Controller drives the popup flows against a Session.
type Controller struct {
	browser     Browser
	notifier    Notifier
	bookingHost string
}

// NewController returns a Controller.  An empty bookingHost selects
// api.DefaultBookingHost.
func NewController(browser Browser, notifier Notifier, bookingHost string) *Controller {
	if bookingHost == "" {
		bookingHost = api.DefaultBookingHost
	}
	return &Controller{browser: browser, notifier: notifier, bookingHost: bookingHost}
}

// ValidateInput re-validates the seat input after every change.  The
// session's request is replaced wholesale; nothing from earlier input is
// kept.
func (c *Controller) ValidateInput(s *Session, raw string) {
	req, err := seat.ParseRequest(raw)
	switch {
	case errors.Is(err, seat.ErrEmptyInput):
		s.Request = seat.Request{}
		s.CanCheck = false
		s.clear()
	case err != nil:
		s.Request = seat.Request{}
		s.CanCheck = false
		s.show(KindError, seat.InvalidInputMessage)
	default:
		s.Request = req
		s.CanCheck = true
		s.clear()
	}
}

// CheckSeats scans the active tab for the seats in s.Request.
func (c *Controller) CheckSeats(ctx context.Context, s *Session) {
	if s.Busy || !s.CanCheck {
		return
	}
	requested := s.Request.Strings()

	tab, url, ok := c.seatingTab(ctx, s)
	if !ok {
		return
	}
	s.Busy = true
	defer func() { s.Busy = false }()

	resp, err := c.send(ctx, tab, scanner.Request{Action: scanner.ActionCheckSeat, SeatNumbers: requested})
	if err != nil {
		log.Printf("popup: check seats: %v", err)
		s.show(KindError, MsgRefreshPage)
		return
	}
	if resp.Failed() {
		s.show(KindError, resp.Error)
		return
	}
	s.adoptScan(url, resp)

	if len(requested) == 1 {
		if len(resp.OccupiedSeats) == 1 {
			s.show(KindInfo, MsgSeatOccupied)
			s.ShowEmail = true
		} else {
			s.show(KindSuccess, MsgSeatAvailable)
			s.ShowEmail = false
		}
		return
	}
	if len(resp.AvailableSeats) > 0 {
		s.show(KindSuccess, fmt.Sprintf(msgSomeAvailable, strings.Join(resp.AvailableSeats, ", ")))
		s.ShowEmail = false
		return
	}
	s.show(KindInfo, MsgAllOccupied)
	s.ShowEmail = true
}

// CheckAllSeats scans the active tab for every occupied seat.
func (c *Controller) CheckAllSeats(ctx context.Context, s *Session) {
	if s.Busy {
		return
	}
	tab, url, ok := c.seatingTab(ctx, s)
	if !ok {
		return
	}
	s.Busy = true
	defer func() { s.Busy = false }()

	resp, err := c.send(ctx, tab, scanner.Request{Action: scanner.ActionGetAllOccupiedSeats})
	if err != nil {
		log.Printf("popup: check all seats: %v", err)
		s.show(KindError, MsgNoCommunication)
		return
	}
	if resp.Failed() {
		s.show(KindError, resp.Error)
		return
	}
	if len(resp.OccupiedSeats) == 0 {
		s.show(KindSuccess, MsgAllSeatsAvailable)
		s.ShowEmail = false
		return
	}
	s.adoptScan(url, resp)
	s.show(KindInfo, fmt.Sprintf(msgOccupiedFound, len(resp.OccupiedSeats)))
	s.ShowEmail = true
}

// SubmitEmail subscribes email to the seats of the last scan.  A malformed
// address is rejected before any network call.
func (c *Controller) SubmitEmail(ctx context.Context, s *Session, email string) {
	if s.Busy {
		return
	}
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		s.show(KindError, MsgInvalidEmail)
		return
	}
	anyMode := s.Mode == ModeAny

	s.Busy = true
	defer func() { s.Busy = false }()

	resp, err := c.notifier.Submit(ctx, api.NotificationRequest{
		Email:                    email,
		SeatNumbers:              s.Seats,
		URL:                      s.SeatingURL,
		Theater:                  s.Show.Theater,
		Movie:                    s.Show.Movie,
		Showtime:                 s.showtime(),
		AreSpecificallyRequested: !anyMode,
	})
	if err != nil {
		log.Printf("popup: submit notification: %v", err)
		s.show(KindError, MsgTryLater)
		return
	}

	switch {
	case resp.Error != "":
		s.show(KindError, resp.Error)
	case resp.Exists:
		if anyMode {
			s.show(KindInfo, MsgAlreadyShowing)
		} else {
			s.show(KindInfo, MsgAlreadySeats)
		}
	case resp.Detail != "" || resp.Created == nil:
		s.show(KindError, MsgUnknownError)
	default:
		s.show(KindSuccess, successMessage(email, s.Seats, *resp.Created, anyMode))
		s.ShowEmail = false
	}
}

func successMessage(email string, seats []string, created int, anyMode bool) string {
	switch {
	case anyMode:
		return fmt.Sprintf(msgNotifyAny, email)
	case len(seats) == 1:
		return fmt.Sprintf(msgNotifySeat, email, seats[0])
	case created == len(seats):
		return fmt.Sprintf(msgNotifySeats, email, strings.Join(seats, ", "))
	default:
		return fmt.Sprintf(msgPartialSubscribed, created)
	}
}

// seatingTab resolves the active tab and checks it shows a seating page.
func (c *Controller) seatingTab(ctx context.Context, s *Session) (Tab, string, bool) {
	tab, err := c.browser.ActiveTab(ctx)
	if err != nil {
		log.Printf("popup: active tab: %v", err)
		s.show(KindError, MsgWrongPage)
		return nil, "", false
	}
	raw, err := tab.URL(ctx)
	if err != nil {
		log.Printf("popup: tab url: %v", err)
		s.show(KindError, MsgWrongPage)
		return nil, "", false
	}
	url, err := api.SeatingURL(raw, c.bookingHost)
	if err != nil {
		s.show(KindError, MsgWrongPage)
		return nil, "", false
	}
	return tab, url, true
}

// send delivers req, injecting the scanner and retrying exactly once when
// the tab has none loaded.
func (c *Controller) send(ctx context.Context, tab Tab, req scanner.Request) (scanner.Response, error) {
	resp, err := tab.Send(ctx, req)
	if err == nil || !errors.Is(err, scanner.ErrProbeMissing) {
		return resp, err
	}
	if err := tab.Inject(ctx); err != nil {
		return scanner.Response{}, fmt.Errorf("inject scanner: %w", err)
	}
	return tab.Send(ctx, req)
}
