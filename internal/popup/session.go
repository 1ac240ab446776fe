// Package popup is the user-facing controller of the seat checker.  It
// validates seat input, scans the active booking tab and subscribes the
// user to seat alerts.  All state lives in an explicit Session.
package popup

import (
	"time"

	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
	"github.com/iliyamo/cinema-seat-alert/internal/seat"
)

// Mode selects between checking specific seats and watching any seat.
type Mode string

const (
	ModeSpecific Mode = "specific"
	ModeAny      Mode = "any"
)

// Kind styles a message.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is the single line of feedback shown to the user.
type Message struct {
	Text string
	Kind Kind
}

// Session is the controller state for one popup.  Handlers read and
// overwrite it; nothing is kept anywhere else.
type Session struct {
	Mode Mode

	// Request is the last valid seat input.  CanCheck is false while the
	// input is empty or invalid.
	Request  seat.Request
	CanCheck bool

	// Set from the last successful scan.
	SeatingURL string
	Seats      []string // seats the user would be notified about
	Show       scanner.ShowInfo

	ShowEmail bool
	Busy      bool
	Message   Message
}

// NewSession returns a session in specific-seat mode.
func NewSession() *Session {
	return &Session{Mode: ModeSpecific}
}

// SwitchMode changes the active tab of the popup, hiding the email form and
// clearing any message.
func (s *Session) SwitchMode(m Mode) {
	s.Mode = m
	s.ShowEmail = false
	s.clear()
}

func (s *Session) show(kind Kind, text string) { s.Message = Message{Text: text, Kind: kind} }

func (s *Session) clear() { s.Message = Message{} }

// adoptScan overwrites the show fields wholesale with a scan result.
func (s *Session) adoptScan(url string, resp scanner.Response) {
	s.SeatingURL = url
	s.Seats = append([]string(nil), resp.OccupiedSeats...)
	s.Show = resp.ShowInfo()
}

// showtime returns the parsed show date, if any.
func (s *Session) showtime() *time.Time { return s.Show.Date }
