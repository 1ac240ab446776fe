package repository

import (
	"context"
	"database/sql"
	"time"
)

// CleanupRepo removes data nobody can be alerted about any more.
// Notifications go away through ON DELETE CASCADE.
type CleanupRepo struct {
	db *sql.DB
}

// NewCleanupRepo returns a CleanupRepo bound to db.
func NewCleanupRepo(db *sql.DB) *CleanupRepo { return &CleanupRepo{db: db} }

// DeleteStaleMovies removes movies last detected before cutoff together
// with their showtimes.
func (r *CleanupRepo) DeleteStaleMovies(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE last_detected < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeletePastShowtimes removes showtimes that started before now.
// Showtimes with an unknown start are kept until their movie goes stale.
func (r *CleanupRepo) DeletePastShowtimes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE starts_at IS NOT NULL AND starts_at < ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
