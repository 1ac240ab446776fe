// Command seatcheck checks seats on an AMC seating page and can subscribe
// an e-mail address to alerts for the occupied ones.
//
//	seatcheck -url https://www.amctheatres.com/showtimes/123/seats -seats F7,F8-F10 -email me@example.com
//	seatcheck -url ... -any -email me@example.com
//	seatcheck -url ... -snapshot page.html -seats F7
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-seat-alert/internal/api"
	"github.com/iliyamo/cinema-seat-alert/internal/popup"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

type options struct {
	url         string
	seats       string
	anySeat     bool
	email       string
	snapshot    string
	headless    bool
	backend     string
	bookingHost string
	scanOpts    []scanner.Option
}

var verbose bool

const msgNoSeats = "Enter one or more seats, e.g. -seats F7 or -seats F7,F8-F10, or use -any."

func main() {
	_ = godotenv.Load()
	log.SetOutput(io.Discard) // only user-facing messages go to the terminal

	o := options{
		backend:     envOr("BACKEND_URL", "http://localhost:8080"),
		bookingHost: envOr("BOOKING_HOST", api.DefaultBookingHost),
	}
	flag.StringVar(&o.url, "url", "", "seating page URL")
	flag.StringVar(&o.seats, "seats", "", "seats to check, e.g. F7,F8-F10")
	flag.BoolVar(&o.anySeat, "any", false, "watch every occupied seat of the showing")
	flag.StringVar(&o.email, "email", "", "address to notify when a checked seat frees up")
	flag.StringVar(&o.snapshot, "snapshot", "", "read the seat map from a saved HTML file instead of Chrome")
	flag.BoolVar(&o.headless, "headless", true, "run Chrome without a window")
	flag.BoolVar(&verbose, "v", false, "log diagnostics to stderr")
	flag.Parse()
	if verbose {
		log.SetOutput(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, o, os.Stdout)
	stop()
	os.Exit(code)
}

// run plays one popup session: check, then subscribe when the check left
// the e-mail form open and an address was given.  It returns the exit
// code.
func run(ctx context.Context, o options, out io.Writer) int {
	if o.url != "" {
		if _, err := api.SeatingURL(o.url, o.bookingHost); err != nil {
			fmt.Fprintln(out, popup.MsgWrongPage)
			return 1
		}
	}
	browser, closeBrowser, err := newBrowser(ctx, o)
	if err != nil {
		fmt.Fprintln(out, err)
		return 2
	}
	defer closeBrowser()

	c := popup.NewController(browser, api.NewClient(o.backend, nil), o.bookingHost)
	s := popup.NewSession()

	if o.anySeat {
		s.SwitchMode(popup.ModeAny)
		c.CheckAllSeats(ctx, s)
	} else {
		c.ValidateInput(s, o.seats)
		if !s.CanCheck {
			if s.Message.Text == "" {
				s.Message = popup.Message{Text: msgNoSeats, Kind: popup.KindError}
			}
			return report(out, s)
		}
		c.CheckSeats(ctx, s)
	}
	code := report(out, s)
	if code != 0 || !s.ShowEmail || o.email == "" {
		return code
	}

	c.SubmitEmail(ctx, s, o.email)
	return report(out, s)
}

func report(out io.Writer, s *popup.Session) int {
	if s.Message.Text != "" {
		fmt.Fprintln(out, s.Message.Text)
	}
	if s.Message.Kind == popup.KindError {
		return 1
	}
	return 0
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
