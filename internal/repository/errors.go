// Package repository holds the SQL access for theaters, movies, showtimes
// and seat notifications.  Handlers and the monitor never build SQL
// themselves.
package repository

import "errors"

// ErrNotFound is returned when a row addressed by id or token does not
// exist.  Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")
