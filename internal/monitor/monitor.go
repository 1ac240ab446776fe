// Package monitor re-checks watched seating pages on a schedule and
// publishes an alert for every watched seat that became free.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/cinema-seat-alert/internal/config"
	q "github.com/iliyamo/cinema-seat-alert/internal/queue"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
	"github.com/iliyamo/cinema-seat-alert/internal/scanner"
)

// PageTimeout bounds one scan of one page, page load included.
const PageTimeout = 45 * time.Second

// Layouts of the date and time carried in alerts.
const (
	DateLayout = "Monday, January 2, 2006"
	TimeLayout = "3:04 PM"
)

// WatchList lists every notification that can still fire.
type WatchList interface {
	ListWatched(ctx context.Context, now time.Time) ([]repository.WatchedSeat, error)
}

// MovieToucher keeps movies seen on live pages from going stale.
type MovieToucher interface {
	TouchMovie(ctx context.Context, movieID uint64, at time.Time) error
}

// Cleaner removes data that can no longer produce alerts.
type Cleaner interface {
	DeleteStaleMovies(ctx context.Context, cutoff time.Time) (int64, error)
	DeletePastShowtimes(ctx context.Context, now time.Time) (int64, error)
}

// PageScanner scans one seating page.  *scanner.Remote implements it.
type PageScanner interface {
	Scan(ctx context.Context, url string, req scanner.Request) (scanner.Response, error)
}

// Publisher hands alerts to the mailer.  It must be safe for concurrent
// use.
type Publisher interface {
	PublishSeatAvailable(ctx context.Context, ev q.SeatAvailableEvent) error
}

// Monitor is the periodic seat checker.
type Monitor struct {
	Watched   WatchList
	Movies    MovieToucher
	Cleaner   Cleaner
	Scanner   PageScanner
	Publisher Publisher
	Config    config.MonitorConfig
	Now       func() time.Time
}

// New wires a Monitor.
func New(cfg config.MonitorConfig, watched WatchList, movies MovieToucher, cleanup Cleaner, s PageScanner, p Publisher) *Monitor {
	return &Monitor{
		Watched:   watched,
		Movies:    movies,
		Cleaner:   cleanup,
		Scanner:   s,
		Publisher: p,
		Config:    cfg,
		Now:       time.Now,
	}
}

// Run checks all pages immediately and then every Config.Interval, and
// cleans up stale data every Config.CleanupInterval, until ctx ends.
func (m *Monitor) Run(ctx context.Context) error {
	check := time.NewTicker(m.Config.Interval)
	defer check.Stop()
	cleanup := time.NewTicker(m.Config.CleanupInterval)
	defer cleanup.Stop()

	m.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-check.C:
			m.runOnce(ctx)
		case <-cleanup.C:
			if err := m.Cleanup(ctx); err != nil {
				log.Printf("seat-monitor: cleanup failed: %v", err)
			}
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	start := time.Now()
	n, err := m.RunOnce(ctx)
	if err != nil {
		log.Printf("seat-monitor: run failed: %v", err)
		return
	}
	log.Printf("seat-monitor: run finished in %s, %d alerts published", time.Since(start).Round(time.Millisecond), n)
}

// page is every watched row of one seating URL.
type page struct {
	url  string
	rows []repository.WatchedSeat
}

// RunOnce checks every watched page once and returns how many alerts were
// published.  Pages that cannot be scanned are logged and skipped.
func (m *Monitor) RunOnce(ctx context.Context) (int, error) {
	now := m.Now()
	rows, err := m.Watched.ListWatched(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list watched seats: %w", err)
	}
	pages := groupByURL(rows)
	if len(pages) == 0 {
		return 0, nil
	}
	log.Printf("seat-monitor: checking %d pages (%d notifications)", len(pages), len(rows))

	var published atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.Config.Workers, 1))
	for _, p := range pages {
		p := p
		g.Go(func() error {
			published.Add(int64(m.checkPage(gctx, p, now)))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return int(published.Load()), err
	}
	return int(published.Load()), nil
}

func groupByURL(rows []repository.WatchedSeat) []page {
	var pages []page
	index := make(map[string]int)
	for _, r := range rows {
		url := r.Showtime.SeatingURL
		i, ok := index[url]
		if !ok {
			i = len(pages)
			index[url] = i
			pages = append(pages, page{url: url})
		}
		pages[i].rows = append(pages[i].rows, r)
	}
	return pages
}

// checkPage scans one page and publishes the alerts it warrants.
func (m *Monitor) checkPage(ctx context.Context, p page, now time.Time) int {
	seats := make([]string, 0, len(p.rows))
	seen := make(map[string]bool, len(p.rows))
	for _, r := range p.rows {
		s := strings.ToUpper(r.Notification.SeatNumber)
		if !seen[s] {
			seen[s] = true
			seats = append(seats, s)
		}
	}

	resp, err := m.scan(ctx, p.url, scanner.Request{Action: scanner.ActionCheckSeat, SeatNumbers: seats})
	if errors.Is(err, errSeatsMissing) {
		log.Printf("seat-monitor: %s: some watched seats are not on screen; classifying every seat", p.url)
		resp, err = m.scan(ctx, p.url, scanner.Request{Action: scanner.ActionGetAllOccupiedSeats})
	}
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("seat-monitor: scan %s: %v; skipping", p.url, err)
		}
		return 0
	}
	first := p.rows[0]
	if err := m.Movies.TouchMovie(ctx, first.Movie.ID, now); err != nil {
		log.Printf("seat-monitor: touch movie %d: %v", first.Movie.ID, err)
	}

	free := make(map[string]bool, len(resp.AvailableSeats))
	for _, s := range resp.AvailableSeats {
		free[strings.ToUpper(s)] = true
	}

	sent := 0
	for _, r := range p.rows {
		n := r.Notification
		if !free[strings.ToUpper(n.SeatNumber)] || !n.Due(now, m.Config.ReminderAfter) {
			continue
		}
		ev := NewEvent(r, now)
		if err := m.Publisher.PublishSeatAvailable(ctx, ev); err != nil {
			log.Printf("seat-monitor: publish alert for notification %d: %v", n.ID, err)
			continue
		}
		sent++
	}
	return sent
}

// errSeatsMissing reports a check whose requested seats were not all on
// the page.  It is not retried.
var errSeatsMissing = errors.New("watched seats missing from page")

// scan serves req on url, retrying once on a new tab.
func (m *Monitor) scan(ctx context.Context, url string, req scanner.Request) (scanner.Response, error) {
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		sctx, cancel := context.WithTimeout(ctx, PageTimeout)
		var resp scanner.Response
		resp, err = m.Scanner.Scan(sctx, url, req)
		cancel()
		if err == nil && resp.Failed() {
			if resp.Error == scanner.MsgSeatsNotFound {
				return scanner.Response{}, errSeatsMissing
			}
			err = fmt.Errorf("scanner: %s", resp.Error)
		}
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return scanner.Response{}, ctx.Err()
		}
		if attempt == 1 {
			log.Printf("seat-monitor: scan %s failed: %v; retrying", url, err)
		}
	}
	return scanner.Response{}, err
}

// NewEvent builds the alert for a watched seat found free at now.  Date and
// time are printed in the theater's zone and left empty when the start of
// the show is unknown.
func NewEvent(w repository.WatchedSeat, now time.Time) q.SeatAvailableEvent {
	ev := q.SeatAvailableEvent{
		NotificationID:        w.Notification.ID,
		ShowtimeID:            w.Showtime.ID,
		Email:                 w.Notification.Email,
		SeatNumber:            w.Notification.SeatNumber,
		SeatingURL:            w.Showtime.SeatingURL,
		Theater:               w.Theater.Name,
		Movie:                 w.Movie.Name,
		FirstAlert:            w.Notification.FirstAlert(),
		SpecificallyRequested: w.Notification.IsSpecificallyRequested,
		DetectedAt:            now.UTC().Format(time.RFC3339),
	}
	if w.Showtime.StartsAt != nil {
		local := w.Showtime.StartsAt.In(w.Theater.Location())
		ev.Date = local.Format(DateLayout)
		ev.Time = strings.ToLower(local.Format(TimeLayout))
	}
	return ev
}

// Cleanup deletes stale movies and past showtimes.  Their notifications go
// with them.
func (m *Monitor) Cleanup(ctx context.Context) error {
	now := m.Now()
	movies, err := m.Cleaner.DeleteStaleMovies(ctx, now.Add(-m.Config.StaleAfter))
	if err != nil {
		return fmt.Errorf("delete stale movies: %w", err)
	}
	shows, err := m.Cleaner.DeletePastShowtimes(ctx, now)
	if err != nil {
		return fmt.Errorf("delete past showtimes: %w", err)
	}
	log.Printf("seat-monitor: cleanup removed %d movies and %d showtimes", movies, shows)
	return nil
}
