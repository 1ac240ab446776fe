// Package api holds the wire types shared by the seat alert backend and its
// clients, plus a small HTTP client for the notification endpoint.
package api

import (
	"encoding/json"
	"time"
)

// NotificationRequest is the body of POST /notifications.
type NotificationRequest struct {
	Email                    string     `json:"email" validate:"required,email,max=255"`
	SeatNumbers              []string   `json:"seatNumbers" validate:"required,min=1,max=400,dive,seat"`
	URL                      string     `json:"url" validate:"required,url,max=255"`
	Theater                  string     `json:"theater" validate:"required,max=255"`
	Movie                    string     `json:"movie" validate:"required,max=255"`
	Showtime                 *time.Time `json:"showtime"`
	AreSpecificallyRequested bool       `json:"areSpecificallyRequested"`
}

// UnmarshalJSON also accepts "areSpecficallyRequested", the spelling older
// extension builds send.
func (r *NotificationRequest) UnmarshalJSON(b []byte) error {
	type plain NotificationRequest
	var aux struct {
		plain
		Legacy *bool `json:"areSpecficallyRequested"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = NotificationRequest(aux.plain)
	if aux.Legacy != nil && !r.AreSpecificallyRequested {
		r.AreSpecificallyRequested = *aux.Legacy
	}
	return nil
}

// NotificationResponse is the body returned by POST /notifications.  Only
// one of the fields is normally set.
type NotificationResponse struct {
	Exists  bool   `json:"exists,omitempty"`
	Created *int   `json:"created,omitempty"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Created is a helper for building responses.
func Created(n int) NotificationResponse { return NotificationResponse{Created: &n} }
