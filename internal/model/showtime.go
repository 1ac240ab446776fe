package model

import "time"

// Showtime is one screening, identified by the seating page that sells it.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being shown.
//  TheaterID  – theater showing it.
//  StartsAt   – start time in UTC; nil when the page's date could not be read.
//  SeatingURL – normalized seating page URL, unique per showtime.
type Showtime struct {
	ID         uint64     // showtimes.id
	MovieID    uint64     // showtimes.movie_id
	TheaterID  uint64     // showtimes.theater_id
	StartsAt   *time.Time // showtimes.starts_at
	SeatingURL string     // showtimes.seating_url
}
