package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables shared by the API, the monitor and the alert
// consumer.  Deleting a movie or showtime cascades to its notifications.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS theaters (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name      VARCHAR(255) NOT NULL,
		timezone  VARCHAR(64)  NOT NULL,
		UNIQUE KEY uq_theaters_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		last_detected DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_movies_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS showtimes (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id    BIGINT UNSIGNED NOT NULL,
		theater_id  BIGINT UNSIGNED NOT NULL,
		starts_at   DATETIME        NULL,
		seating_url VARCHAR(255)    NOT NULL,
		UNIQUE KEY uq_showtimes_url (seating_url),
		CONSTRAINT fk_showtimes_movie FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE,
		CONSTRAINT fk_showtimes_theater FOREIGN KEY (theater_id) REFERENCES theaters(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS seat_notifications (
		id                        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_email                VARCHAR(255)    NOT NULL,
		seat_number               VARCHAR(8)      NOT NULL,
		showtime_id               BIGINT UNSIGNED NOT NULL,
		last_notified             DATETIME        NULL,
		is_specifically_requested BOOLEAN         NOT NULL,
		created_at                DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_notification (user_email, showtime_id, seat_number),
		CONSTRAINT fk_notifications_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
