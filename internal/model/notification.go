package model

import "time"

// SeatNotification is one e-mail address waiting for one seat of one
// showtime.  A "watch any seat" subscription is stored as one row per
// occupied seat with IsSpecificallyRequested false.
type SeatNotification struct {
	ID                      uint64     // seat_notifications.id
	Email                   string     // seat_notifications.user_email
	SeatNumber              string     // seat_notifications.seat_number
	ShowtimeID              uint64     // seat_notifications.showtime_id
	LastNotified            *time.Time // seat_notifications.last_notified
	IsSpecificallyRequested bool       // seat_notifications.is_specifically_requested
	CreatedAt               time.Time  // seat_notifications.created_at
}

// Due reports whether an alert may be sent now: the seat was never
// announced, or the last announcement is older than remindAfter.
func (n SeatNotification) Due(now time.Time, remindAfter time.Duration) bool {
	return n.LastNotified == nil || now.Sub(*n.LastNotified) > remindAfter
}

// FirstAlert reports whether the next alert is the first for this row.
func (n SeatNotification) FirstAlert() bool { return n.LastNotified == nil }
