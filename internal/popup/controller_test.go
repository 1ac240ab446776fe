package popup

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

const seatsURL = "https://www.amctheatres.com/showtimes/987/seats"

type fakeTab struct {
	url       string
	urlErr    error
	installed bool
	injectErr error
	resp      scanner.Response
	sendErr   error

	sent    []scanner.Request
	injects int
}

func (t *fakeTab) URL(context.Context) (string, error) { return t.url, t.urlErr }

func (t *fakeTab) Send(_ context.Context, req scanner.Request) (scanner.Response, error) {
	t.sent = append(t.sent, req)
	if !t.installed {
		return scanner.Response{}, fmt.Errorf("send: %w", scanner.ErrProbeMissing)
	}
	return t.resp, t.sendErr
}

func (t *fakeTab) Inject(context.Context) error {
	t.injects++
	if t.injectErr != nil {
		return t.injectErr
	}
	t.installed = true
	return nil
}

type fakeBrowser struct {
	tab Tab
	err error
}

func (b fakeBrowser) ActiveTab(context.Context) (Tab, error) { return b.tab, b.err }

type fakeNotifier struct {
	resp  api.NotificationResponse
	err   error
	calls []api.NotificationRequest
}

func (n *fakeNotifier) Submit(_ context.Context, req api.NotificationRequest) (api.NotificationResponse, error) {
	n.calls = append(n.calls, req)
	return n.resp, n.err
}

func showDate() *time.Time {
	d := time.Date(2025, 2, 16, 19, 30, 0, 0, time.UTC)
	return &d
}

func scanResult(occupied, available []string) scanner.Response {
	return scanner.Response{
		OccupiedSeats:  occupied,
		AvailableSeats: available,
		TheaterName:    "AMC Lincoln Square 13",
		MovieName:      "Dune: Part Two",
		MovieShowtime:  "7:30pm",
		Date:           showDate(),
	}
}

func newTestController(tab *fakeTab, n *fakeNotifier) *Controller {
	return NewController(fakeBrowser{tab: tab}, n, "")
}

func validSession(t *testing.T, c *Controller, input string) *Session {
	t.Helper()
	s := NewSession()
	c.ValidateInput(s, input)
	require.True(t, s.CanCheck)
	return s
}

func TestValidateInput(t *testing.T) {
	c := newTestController(&fakeTab{}, &fakeNotifier{})
	s := NewSession()

	c.ValidateInput(s, "a1, B2-B4")
	assert.True(t, s.CanCheck)
	assert.Equal(t, []string{"A1", "B2", "B3", "B4"}, s.Request.Strings())
	assert.Empty(t, s.Message.Text)

	c.ValidateInput(s, "A1, Z99")
	assert.False(t, s.CanCheck)
	assert.Zero(t, s.Request.Len())
	assert.Equal(t, Message{Text: seat.InvalidInputMessage, Kind: KindError}, s.Message)

	c.ValidateInput(s, "   ")
	assert.False(t, s.CanCheck)
	assert.Empty(t, s.Message.Text)

	c.ValidateInput(s, "C7")
	assert.True(t, s.CanCheck)
	assert.Equal(t, []string{"C7"}, s.Request.Strings())
	assert.Empty(t, s.Message.Text)
}

func TestCheckSeatsWrongPage(t *testing.T) {
	tab := &fakeTab{url: "https://www.amctheatres.com/movies/dune", installed: true}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "A1")

	c.CheckSeats(context.Background(), s)

	assert.Equal(t, Message{Text: MsgWrongPage, Kind: KindError}, s.Message)
	assert.Empty(t, tab.sent)
	assert.False(t, s.Busy)
}

func TestCheckSeatsNoActiveTab(t *testing.T) {
	c := NewController(fakeBrowser{err: errors.New("no window")}, &fakeNotifier{}, "")
	s := validSession(t, c, "A1")

	c.CheckSeats(context.Background(), s)
	assert.Equal(t, MsgWrongPage, s.Message.Text)
}

func TestCheckSeatsSkipsInvalidOrBusy(t *testing.T) {
	tab := &fakeTab{url: seatsURL, installed: true, resp: scanResult([]string{"A1"}, []string{})}
	c := newTestController(tab, &fakeNotifier{})

	s := NewSession()
	c.CheckSeats(context.Background(), s)
	assert.Empty(t, tab.sent)

	s = validSession(t, c, "A1")
	s.Busy = true
	c.CheckSeats(context.Background(), s)
	assert.Empty(t, tab.sent)
}

func TestCheckSingleSeat(t *testing.T) {
	tab := &fakeTab{url: seatsURL + "?from=map", installed: true, resp: scanResult([]string{"A1"}, []string{})}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "a1")

	c.CheckSeats(context.Background(), s)

	require.Len(t, tab.sent, 1)
	assert.Equal(t, scanner.Request{Action: scanner.ActionCheckSeat, SeatNumbers: []string{"A1"}}, tab.sent[0])
	assert.Equal(t, Message{Text: MsgSeatOccupied, Kind: KindInfo}, s.Message)
	assert.True(t, s.ShowEmail)
	assert.Equal(t, seatsURL, s.SeatingURL)
	assert.Equal(t, []string{"A1"}, s.Seats)
	assert.Equal(t, "AMC Lincoln Square 13", s.Show.Theater)
	assert.False(t, s.Busy)

	tab.resp = scanResult([]string{}, []string{"A1"})
	c.CheckSeats(context.Background(), s)
	assert.Equal(t, Message{Text: MsgSeatAvailable, Kind: KindSuccess}, s.Message)
	assert.False(t, s.ShowEmail)
}

func TestCheckSeveralSeats(t *testing.T) {
	tab := &fakeTab{url: seatsURL, installed: true, resp: scanResult([]string{"B1"}, []string{"B2", "B3"})}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "B1-B3")

	c.CheckSeats(context.Background(), s)
	assert.Equal(t, Message{Text: "The following seats are already available: B2, B3", Kind: KindSuccess}, s.Message)
	assert.False(t, s.ShowEmail)

	tab.resp = scanResult([]string{"B1", "B2", "B3"}, []string{})
	c.CheckSeats(context.Background(), s)
	assert.Equal(t, Message{Text: MsgAllOccupied, Kind: KindInfo}, s.Message)
	assert.True(t, s.ShowEmail)
	assert.Equal(t, []string{"B1", "B2", "B3"}, s.Seats)
}

func TestCheckSeatsScannerError(t *testing.T) {
	tab := &fakeTab{url: seatsURL, installed: true, resp: scanner.Response{Error: scanner.MsgSeatsNotFound}}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "A1, A2")

	c.CheckSeats(context.Background(), s)
	assert.Equal(t, Message{Text: scanner.MsgSeatsNotFound, Kind: KindError}, s.Message)
	assert.False(t, s.ShowEmail)
	assert.Empty(t, s.SeatingURL)
}

func TestCheckSeatsInjectsOnce(t *testing.T) {
	tab := &fakeTab{url: seatsURL, resp: scanResult([]string{"A1"}, []string{})}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "A1")

	c.CheckSeats(context.Background(), s)

	assert.Equal(t, 1, tab.injects)
	assert.Len(t, tab.sent, 2)
	assert.Equal(t, MsgSeatOccupied, s.Message.Text)
}

func TestCheckSeatsInjectFailure(t *testing.T) {
	tab := &fakeTab{url: seatsURL, injectErr: errors.New("tab closed")}
	c := newTestController(tab, &fakeNotifier{})
	s := validSession(t, c, "A1")

	c.CheckSeats(context.Background(), s)

	assert.Equal(t, 1, tab.injects)
	assert.Len(t, tab.sent, 1)
	assert.Equal(t, Message{Text: MsgRefreshPage, Kind: KindError}, s.Message)
	assert.False(t, s.Busy)
}

func TestCheckAllSeats(t *testing.T) {
	tab := &fakeTab{url: seatsURL, installed: true, resp: scanResult([]string{"D1", "D4", "D7"}, nil)}
	c := newTestController(tab, &fakeNotifier{})
	s := NewSession()
	s.SwitchMode(ModeAny)

	c.CheckAllSeats(context.Background(), s)

	require.Len(t, tab.sent, 1)
	assert.Equal(t, scanner.ActionGetAllOccupiedSeats, tab.sent[0].Action)
	assert.Empty(t, tab.sent[0].SeatNumbers)
	assert.Equal(t, Message{Text: "Found 3 occupied seats. Enter your email to get notified when any become available.", Kind: KindInfo}, s.Message)
	assert.True(t, s.ShowEmail)
	assert.Equal(t, []string{"D1", "D4", "D7"}, s.Seats)

	tab.resp = scanResult([]string{}, nil)
	c.CheckAllSeats(context.Background(), s)
	assert.Equal(t, Message{Text: MsgAllSeatsAvailable, Kind: KindSuccess}, s.Message)
	assert.False(t, s.ShowEmail)
}

func TestCheckAllSeatsCommunicationError(t *testing.T) {
	tab := &fakeTab{url: seatsURL, installed: true, sendErr: errors.New("target closed")}
	c := newTestController(tab, &fakeNotifier{})
	s := NewSession()

	c.CheckAllSeats(context.Background(), s)
	assert.Equal(t, Message{Text: MsgNoCommunication, Kind: KindError}, s.Message)
	assert.Equal(t, 0, tab.injects)
}

func TestSwitchModeClearsState(t *testing.T) {
	s := NewSession()
	s.ShowEmail = true
	s.show(KindInfo, "x")
	s.SwitchMode(ModeAny)
	assert.Equal(t, ModeAny, s.Mode)
	assert.False(t, s.ShowEmail)
	assert.Empty(t, s.Message.Text)
}

func scannedSession(mode Mode, seats ...string) *Session {
	s := NewSession()
	s.Mode = mode
	s.adoptScan(seatsURL, scanResult(seats, []string{}))
	s.ShowEmail = true
	return s
}

func created(n int) api.NotificationResponse { return api.NotificationResponse{Created: &n} }

func TestSubmitEmailRejectsMalformedAddress(t *testing.T) {
	n := &fakeNotifier{}
	c := newTestController(&fakeTab{}, n)
	for _, email := range []string{"", "fan", "fan@example", "fan @example.com", "@example.com"} {
		s := scannedSession(ModeSpecific, "A1")
		c.SubmitEmail(context.Background(), s, email)
		assert.Equal(t, Message{Text: MsgInvalidEmail, Kind: KindError}, s.Message, email)
	}
	assert.Empty(t, n.calls)
}

func TestSubmitEmailPayload(t *testing.T) {
	n := &fakeNotifier{resp: created(1)}
	c := newTestController(&fakeTab{}, n)
	s := scannedSession(ModeSpecific, "A1")

	c.SubmitEmail(context.Background(), s, " fan@example.com ")

	require.Len(t, n.calls, 1)
	got := n.calls[0]
	assert.Equal(t, "fan@example.com", got.Email)
	assert.Equal(t, []string{"A1"}, got.SeatNumbers)
	assert.Equal(t, seatsURL, got.URL)
	assert.Equal(t, "AMC Lincoln Square 13", got.Theater)
	assert.Equal(t, "Dune: Part Two", got.Movie)
	assert.Equal(t, showDate(), got.Showtime)
	assert.True(t, got.AreSpecificallyRequested)
	assert.Equal(t, Message{Text: "We'll notify fan@example.com when seat A1 becomes available.", Kind: KindSuccess}, s.Message)
	assert.False(t, s.ShowEmail)
	assert.False(t, s.Busy)
}

func TestSubmitEmailOutcomes(t *testing.T) {
	cases := []struct {
		name  string
		mode  Mode
		seats []string
		resp  api.NotificationResponse
		err   error
		want  Message
	}{
		{"all created", ModeSpecific, []string{"A1", "A2", "A3"}, created(3),
			nil, Message{"We'll notify fan@example.com when any of these seats become available: A1, A2, A3.", KindSuccess}},
		{"partial", ModeSpecific, []string{"A1", "A2", "A3"}, created(2),
			nil, Message{"Subscribed to notifications for 2 new seats. Some seats were already subscribed.", KindSuccess}},
		{"any seat", ModeAny, []string{"D1", "D2"}, created(2),
			nil, Message{"We'll notify fan@example.com when any seat becomes available for this showing.", KindSuccess}},
		{"exists specific", ModeSpecific, []string{"A1"}, api.NotificationResponse{Exists: true},
			nil, Message{MsgAlreadySeats, KindInfo}},
		{"exists any", ModeAny, []string{"A1"}, api.NotificationResponse{Exists: true},
			nil, Message{MsgAlreadyShowing, KindInfo}},
		{"server error", ModeSpecific, []string{"A1"}, api.NotificationResponse{Error: "invalid url"},
			nil, Message{"invalid url", KindError}},
		{"detail", ModeSpecific, []string{"A1"}, api.NotificationResponse{Detail: "Not Found"},
			nil, Message{MsgUnknownError, KindError}},
		{"empty body", ModeSpecific, []string{"A1"}, api.NotificationResponse{},
			nil, Message{MsgUnknownError, KindError}},
		{"transport", ModeSpecific, []string{"A1"}, api.NotificationResponse{},
			errors.New("connection refused"), Message{MsgTryLater, KindError}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &fakeNotifier{resp: tc.resp, err: tc.err}
			c := newTestController(&fakeTab{}, n)
			s := scannedSession(tc.mode, tc.seats...)

			c.SubmitEmail(context.Background(), s, "fan@example.com")

			assert.Equal(t, tc.want, s.Message)
			assert.Len(t, n.calls, 1)
			assert.Equal(t, tc.mode == ModeSpecific, n.calls[0].AreSpecificallyRequested)
			assert.False(t, s.Busy)
		})
	}
}

func TestSubmitEmailWhileBusy(t *testing.T) {
	n := &fakeNotifier{resp: created(1)}
	c := newTestController(&fakeTab{}, n)
	s := scannedSession(ModeSpecific, "A1")
	s.Busy = true

	c.SubmitEmail(context.Background(), s, "fan@example.com")
	assert.Empty(t, n.calls)
}
