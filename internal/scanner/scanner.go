// Package scanner reads seat availability and show metadata off a rendered
// booking page.  It works against any Page: a live chromedp tab or a saved
// HTML snapshot.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// SettleDelay is how long the scanner waits after zooming for the seat map
// to re-render.
const SettleDelay = 1000 * time.Millisecond

// MinSeatsOnScreen is the fewest seat buttons a full-screen scan expects
// before it tries zooming in.
const MinSeatsOnScreen = 10

// User-facing scan errors.
const (
	MsgSeatsNotFound   = "Some seat numbers were not found on this screen."
	MsgNoSeatsOnScreen = "No seats were found on this screen."
	MsgNoShowInfo      = "Could not read show details from this page."
	MsgUnknownAction   = "Unknown request."
	MsgScanFailed      = "Could not scan this page."
)

// Scanner classifies seats on a Page.
type Scanner struct {
	page   Page
	settle time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
	loc    *time.Location
	now    func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSettleDelay overrides SettleDelay.
func WithSettleDelay(d time.Duration) Option { return func(s *Scanner) { s.settle = d } }

// WithSleep replaces the wait used after zooming.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scanner) { s.sleep = fn }
}

// WithLocation sets the time zone show dates are parsed in.
func WithLocation(loc *time.Location) Option { return func(s *Scanner) { s.loc = loc } }

// WithClock sets the clock used for dates printed without a year.
func WithClock(now func() time.Time) Option { return func(s *Scanner) { s.now = now } }

// New returns a Scanner reading from page.
func New(page Page, opts ...Option) *Scanner {
	s := &Scanner{
		page:   page,
		settle: SettleDelay,
		sleep:  sleepCtx,
		loc:    time.Local,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Handle dispatches a controller request.  It always returns a Response;
// failures, including panics in the page layer, become Response.Error.
func (s *Scanner) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scanner: recovered from panic: %v", r)
			resp = errorResponse(MsgScanFailed)
		}
	}()
	switch req.Action {
	case ActionCheckSeat:
		return s.CheckSeats(ctx, req.SeatNumbers)
	case ActionGetAllOccupiedSeats:
		return s.AllOccupied(ctx)
	default:
		return errorResponse(MsgUnknownAction)
	}
}

// CheckSeats classifies the requested seats.  If any requested seat is
// missing from the page, even after one zoom attempt, the whole scan fails.
func (s *Scanner) CheckSeats(ctx context.Context, seatNumbers []string) Response {
	req := seat.NewRequest(toLabels(seatNumbers)...)
	if req.Len() == 0 {
		return errorResponse(MsgSeatsNotFound)
	}
	info, err := s.showInfo(ctx)
	if err != nil {
		return s.failure(err)
	}

	found, err := s.scan(ctx, req.Contains, func(n int) bool { return n < req.Len() })
	if err != nil {
		return s.failure(err)
	}
	if len(found) < req.Len() {
		return errorResponse(MsgSeatsNotFound)
	}
	return partition(found, info)
}

// AllOccupied classifies every seat-shaped button on the page.
func (s *Scanner) AllOccupied(ctx context.Context) Response {
	info, err := s.showInfo(ctx)
	if err != nil {
		return s.failure(err)
	}
	found, err := s.scan(ctx, seat.PagePattern.MatchString, func(n int) bool { return n < MinSeatsOnScreen })
	if err != nil {
		return s.failure(err)
	}
	if len(found) == 0 {
		return errorResponse(MsgNoSeatsOnScreen)
	}
	return partition(found, info)
}

// scan enumerates matching seats, zooming in once when insufficient
// reports too few.  The result holds one element per distinct label in
// page order.
func (s *Scanner) scan(ctx context.Context, match func(string) bool, insufficient func(int) bool) ([]Element, error) {
	found, err := s.collect(ctx, match)
	if err != nil {
		return nil, err
	}
	if !insufficient(len(found)) {
		return found, nil
	}

	zoomed, err := s.page.ClickZoom(ctx)
	if err != nil {
		return nil, fmt.Errorf("zoom: %w", err)
	}
	if !zoomed {
		return found, nil
	}
	if err := s.sleep(ctx, s.settle); err != nil {
		return nil, err
	}
	return s.collect(ctx, match)
}

func (s *Scanner) collect(ctx context.Context, match func(string) bool) ([]Element, error) {
	buttons, err := s.page.Buttons(ctx)
	if err != nil {
		return nil, fmt.Errorf("buttons: %w", err)
	}
	seen := make(map[string]struct{}, len(buttons))
	var out []Element
	for _, b := range buttons {
		label := b.Label()
		if !match(label) {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}

func (s *Scanner) showInfo(ctx context.Context) (ShowInfo, error) {
	headline, items, err := s.page.ShowMeta(ctx)
	if err != nil {
		return ShowInfo{}, err
	}
	return readShowInfo(headline, items, s.loc, s.now()), nil
}

// failure maps page errors to user-facing messages.
func (s *Scanner) failure(err error) Response {
	if errors.Is(err, ErrNoShowInfo) {
		return errorResponse(MsgNoShowInfo)
	}
	log.Printf("scanner: scan failed: %v", err)
	return errorResponse(MsgScanFailed)
}

func partition(found []Element, info ShowInfo) Response {
	resp := Response{
		OccupiedSeats:  []string{},
		AvailableSeats: []string{},
		TheaterName:    info.Theater,
		MovieName:      info.Movie,
		MovieShowtime:  info.Showtime,
		Date:           info.Date,
	}
	for _, e := range found {
		if e.Occupied() {
			resp.OccupiedSeats = append(resp.OccupiedSeats, e.Label())
		} else {
			resp.AvailableSeats = append(resp.AvailableSeats, e.Label())
		}
	}
	return resp
}

// toLabels converts seat numbers without validating them.  An entry that is
// not a label never matches a seat button, so the scan reports it missing.
func toLabels(seatNumbers []string) []seat.Label {
	out := make([]seat.Label, 0, len(seatNumbers))
	for _, s := range seatNumbers {
		out = append(out, seat.Label(s))
	}
	return out
}
