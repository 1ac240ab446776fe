package model

import "time"

// Movie is a film someone asked to be alerted about.  LastDetected is
// bumped every time a subscription mentions it; movies not detected for a
// while are swept together with their showtimes.
type Movie struct {
	ID           uint64    // movies.id
	Name         string    // movies.name
	LastDetected time.Time // movies.last_detected
}
