package repository

import (
	"context"
	"database/sql"
	"time"
)

// ShowtimeRepo resolves the theater, movie and showtime rows a
// subscription refers to.  All writes are upserts keyed on natural keys
// (theater name, movie name, seating URL) so repeated subscriptions to the
// same page reuse the same rows.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to db.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the pool so handlers can open transactions spanning several
// repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// UpsertTheaterTx returns the id of the theater called name, creating it
// with timezone when absent.  An existing theater keeps its timezone.
func (r *ShowtimeRepo) UpsertTheaterTx(ctx context.Context, tx *sql.Tx, name, timezone string) (uint64, error) {
	const q = `INSERT INTO theaters (name, timezone) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`
	return insertID(tx.ExecContext(ctx, q, name, timezone))
}

// UpsertMovieTx returns the id of the movie called name and records that it
// was seen at detectedAt.
func (r *ShowtimeRepo) UpsertMovieTx(ctx context.Context, tx *sql.Tx, name string, detectedAt time.Time) (uint64, error) {
	const q = `INSERT INTO movies (name, last_detected) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), last_detected = VALUES(last_detected)`
	return insertID(tx.ExecContext(ctx, q, name, detectedAt.UTC()))
}

// UpsertShowtimeTx returns the id of the showtime sold at seatingURL.  A
// known start time is never overwritten by an unknown one.
func (r *ShowtimeRepo) UpsertShowtimeTx(ctx context.Context, tx *sql.Tx, movieID, theaterID uint64, startsAt *time.Time, seatingURL string) (uint64, error) {
	const q = `INSERT INTO showtimes (movie_id, theater_id, starts_at, seating_url) VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id),
	                                   movie_id = VALUES(movie_id),
	                                   theater_id = VALUES(theater_id),
	                                   starts_at = COALESCE(VALUES(starts_at), starts_at)`
	var start any
	if startsAt != nil {
		start = startsAt.UTC()
	}
	return insertID(tx.ExecContext(ctx, q, movieID, theaterID, start, seatingURL))
}

func insertID(res sql.Result, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// TouchMovie records that the movie was seen on a live seating page at at.
func (r *ShowtimeRepo) TouchMovie(ctx context.Context, movieID uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE movies SET last_detected = ? WHERE id = ?`, at.UTC(), movieID)
	return err
}
