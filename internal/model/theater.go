package model

import "time"

// Theater is a venue seen on a seating page.  Timezone is an IANA zone
// name used to print show times in the theater's local time.
type Theater struct {
	ID       uint64 // theaters.id
	Name     string // theaters.name
	Timezone string // theaters.timezone
}

// Location loads the theater's zone, falling back to UTC when the stored
// name is unknown to the host.
func (t Theater) Location() *time.Location {
	if loc, err := time.LoadLocation(t.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
