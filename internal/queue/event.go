// Package queue defines the alert messages exchanged over RabbitMQ and the
// consumer that turns them into e-mails.
package queue

// SeatAvailableQueue is the durable queue alerts travel on.
const SeatAvailableQueue = "seat.available"

// SeatAvailableEvent is published by the monitor when a watched seat is
// free and the notification is due.  It carries everything the mailer
// needs, so the consumer only reads the database to confirm the
// notification still exists.
type SeatAvailableEvent struct {
	NotificationID        uint64 `json:"notification_id"`
	ShowtimeID            uint64 `json:"showtime_id"`
	Email                 string `json:"email"`
	SeatNumber            string `json:"seat_number"`
	SeatingURL            string `json:"seating_url"`
	Theater               string `json:"theater"`
	Movie                 string `json:"movie"`
	Date                  string `json:"date"` // "Sunday, February 16, 2025" in the theater's zone
	Time                  string `json:"time"` // "7:30 pm" in the theater's zone
	FirstAlert            bool   `json:"first_alert"`
	SpecificallyRequested bool   `json:"specifically_requested"`
	DetectedAt            string `json:"detected_at"` // RFC 3339, UTC
}
