package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/cinema-seat-alert/internal/model"
)

// NotificationRepo stores seat notifications.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to db.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// WatchedSeat is a notification joined with everything needed to check the
// seat and write the alert.
type WatchedSeat struct {
	Notification model.SeatNotification
	Showtime     model.Showtime
	Theater      model.Theater
	Movie        model.Movie
}

// CreateMissingTx inserts one notification per seat for email and
// showtimeID, skipping seats the address already watches.  It returns how
// many rows were created.  Passing no seats has no effect.
func (r *NotificationRepo) CreateMissingTx(ctx context.Context, tx *sql.Tx, email string, showtimeID uint64, seats []string, specific bool) (int, error) {
	if len(seats) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT IGNORE INTO seat_notifications (user_email, seat_number, showtime_id, is_specifically_requested) VALUES `)
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, email, s, showtimeID, specific)
	}
	res, err := tx.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetByID returns one notification or ErrNotFound.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (*model.SeatNotification, error) {
	const q = `SELECT id, user_email, seat_number, showtime_id, last_notified, is_specifically_requested, created_at
	           FROM seat_notifications WHERE id = ?`
	var n model.SeatNotification
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&n.ID, &n.Email, &n.SeatNumber, &n.ShowtimeID, &last, &n.IsSpecificallyRequested, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if last.Valid {
		t := last.Time
		n.LastNotified = &t
	}
	return &n, nil
}

// ListWatched returns every notification for showtimes that have not
// started yet (or whose start is unknown), ordered by seating URL so rows of
// one page are adjacent.
func (r *NotificationRepo) ListWatched(ctx context.Context, now time.Time) ([]WatchedSeat, error) {
	const q = `SELECT n.id, n.user_email, n.seat_number, n.showtime_id, n.last_notified, n.is_specifically_requested, n.created_at,
	                  s.id, s.movie_id, s.theater_id, s.starts_at, s.seating_url,
	                  t.id, t.name, t.timezone,
	                  m.id, m.name, m.last_detected
	           FROM seat_notifications n
	           JOIN showtimes s ON s.id = n.showtime_id
	           JOIN theaters t ON t.id = s.theater_id
	           JOIN movies m ON m.id = s.movie_id
	           WHERE s.starts_at IS NULL OR s.starts_at > ?
	           ORDER BY s.seating_url, n.id`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WatchedSeat
	for rows.Next() {
		var w WatchedSeat
		var last, starts sql.NullTime
		if err := rows.Scan(
			&w.Notification.ID, &w.Notification.Email, &w.Notification.SeatNumber, &w.Notification.ShowtimeID,
			&last, &w.Notification.IsSpecificallyRequested, &w.Notification.CreatedAt,
			&w.Showtime.ID, &w.Showtime.MovieID, &w.Showtime.TheaterID, &starts, &w.Showtime.SeatingURL,
			&w.Theater.ID, &w.Theater.Name, &w.Theater.Timezone,
			&w.Movie.ID, &w.Movie.Name, &w.Movie.LastDetected,
		); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			w.Notification.LastNotified = &t
		}
		if starts.Valid {
			t := starts.Time
			w.Showtime.StartsAt = &t
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotified records that an alert for id went out at at.
func (r *NotificationRepo) MarkNotified(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE seat_notifications SET last_notified = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteSeat removes notification id if it belongs to email.
func (r *NotificationRepo) DeleteSeat(ctx context.Context, id uint64, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_notifications WHERE id = ? AND user_email = ?`, id, email)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteShowing removes every notification email holds for showtimeID and
// returns how many were removed.
func (r *NotificationRepo) DeleteShowing(ctx context.Context, email string, showtimeID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_notifications WHERE user_email = ? AND showtime_id = ?`, email, showtimeID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
