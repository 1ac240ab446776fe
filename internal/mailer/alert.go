package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/iliyamo/cinema-seat-alert/internal/queue"
	"github.com/iliyamo/cinema-seat-alert/internal/utils"
)

// LinkTTL is how long unsubscribe links in an alert stay valid.
const LinkTTL = 60 * 24 * time.Hour

// Links signs the unsubscribe links put in alerts.
type Links struct {
	Secret  string
	BaseURL string // public URL of the notification API
}

func (l Links) unsubscribe(c utils.UnsubscribeClaims) (string, error) {
	tok, err := utils.NewUnsubscribeToken(l.Secret, c, LinkTTL)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(l.BaseURL, "/") + "/unsubscribe/" + tok, nil
}

type alertData struct {
	Intro        string
	Movie        string
	Theater      string
	Date         string
	Time         string
	Seat         string
	BookURL      string
	UnsubSeatURL string
	UnsubShowURL string
}

// Subject returns "Seat S Available - Movie at Theater".
func Subject(ev queue.SeatAvailableEvent) string {
	return fmt.Sprintf("Seat %s Available - %s at %s", ev.SeatNumber, ev.Movie, ev.Theater)
}

// Intro returns the headline of the alert.
func Intro(ev queue.SeatAvailableEvent) string {
	var s string
	if ev.SpecificallyRequested {
		s = fmt.Sprintf("Seat %s is now available", ev.SeatNumber)
	} else {
		s = fmt.Sprintf("A seat (%s) just opened up", ev.SeatNumber)
	}
	if !ev.FirstAlert {
		s = "Reminder: " + s
	}
	return s
}

// Compose renders the alert for ev.
func (l Links) Compose(ev queue.SeatAvailableEvent) (Message, error) {
	seatURL, err := l.unsubscribe(utils.UnsubscribeClaims{
		Email: ev.Email, Scope: utils.ScopeSeat, NotificationID: ev.NotificationID, ShowtimeID: ev.ShowtimeID,
	})
	if err != nil {
		return Message{}, err
	}
	showURL, err := l.unsubscribe(utils.UnsubscribeClaims{
		Email: ev.Email, Scope: utils.ScopeShowing, ShowtimeID: ev.ShowtimeID,
	})
	if err != nil {
		return Message{}, err
	}
	data := alertData{
		Intro:        Intro(ev),
		Movie:        ev.Movie,
		Theater:      ev.Theater,
		Date:         orUnknown(ev.Date),
		Time:         orUnknown(ev.Time),
		Seat:         ev.SeatNumber,
		BookURL:      ev.SeatingURL,
		UnsubSeatURL: seatURL,
		UnsubShowURL: showURL,
	}

	var html, text bytes.Buffer
	if err := htmlAlert.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}
	if err := textAlert.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}
	return Message{To: ev.Email, Subject: Subject(ev), HTML: html.String(), Text: text.String()}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

var htmlAlert = htmltemplate.Must(htmltemplate.New("alert").Parse(`<html>
<body style="background-color:#1A1A1A;color:#FFFFFF;font-family:'Inter',sans-serif;line-height:1.6;padding:20px;">
  <div style="max-width:600px;margin:0 auto;background-color:#222222;border-radius:12px;overflow:hidden;">
    <div style="background-color:#000000;padding:24px;text-align:center;">
      <h1 style="color:#F5F5F5;font-size:28px;margin:0;">AMC Seat Alert!</h1>
    </div>
    <div style="padding:32px 24px;">
      <h2 style="color:#E21836;font-size:24px;text-align:center;">{{.Intro}}</h2>
      <div style="background-color:#2A2A2A;padding:24px;border-radius:8px;margin-bottom:32px;">
        <h3 style="font-size:22px;text-align:center;">{{.Movie}}</h3>
        <p><span style="color:#999999;">Theater:</span> {{.Theater}}</p>
        <p><span style="color:#999999;">Date:</span> {{.Date}}</p>
        <p><span style="color:#999999;">Time:</span> {{.Time}}</p>
        <p><span style="color:#999999;">Seat:</span> {{.Seat}}</p>
      </div>
      <div style="text-align:center;margin-bottom:32px;">
        <a href="{{.BookURL}}" style="display:inline-block;background-color:#E21836;color:#FFFFFF;padding:16px 32px;text-decoration:none;border-radius:8px;font-weight:600;">Book Your Seat Now</a>
      </div>
      <div style="border-top:1px solid #333333;padding-top:24px;text-align:center;">
        <p style="color:#999999;">Booked your seat or want to stop notifications?</p>
        <p><a href="{{.UnsubSeatURL}}" style="color:#FFFFFF;">Unsubscribe from Seat {{.Seat}}</a></p>
        <p><a href="{{.UnsubShowURL}}" style="color:#FFFFFF;">Unsubscribe from this showing</a></p>
      </div>
    </div>
    <div style="background-color:#000000;padding:16px;text-align:center;">
      <p style="color:#666666;font-size:12px;margin:0;">This email was sent automatically. Do not reply.</p>
    </div>
  </div>
</body>
</html>
`))

var textAlert = texttemplate.Must(texttemplate.New("alert").Parse(`{{.Intro}}

{{.Movie}}
Theater: {{.Theater}}
Date: {{.Date}}
Time: {{.Time}}
Seat: {{.Seat}}

Book your seat now: {{.BookURL}}

Booked your seat or want to stop notifications?
Unsubscribe from seat {{.Seat}}: {{.UnsubSeatURL}}
Unsubscribe from this showing: {{.UnsubShowURL}}
`))
