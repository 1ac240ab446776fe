package scanner

import (
	"encoding/json"
	"time"
)

// Actions understood by Handle.
const (
	ActionCheckSeat           = "checkSeat"
	ActionGetAllOccupiedSeats = "getAllOccupiedSeats"
)

// Request is the message sent from the controller to the scanner running in
// a page.
type Request struct {
	Action      string   `json:"action"`
	SeatNumbers []string `json:"seatNumbers,omitempty"`
}

// Response is either a scan result or an error.  When Error is set the
// remaining fields are empty.
type Response struct {
	Error string `json:"error,omitempty"`

	OccupiedSeats  []string `json:"occupiedSeats"`
	AvailableSeats []string `json:"availableSeats"`

	TheaterName   string     `json:"theaterName"`
	MovieName     string     `json:"movieName"`
	MovieShowtime string     `json:"movieShowtime"`
	Date          *time.Time `json:"date"` // nil when the page date could not be parsed
}

// MarshalJSON encodes an error response as just {"error": ...}.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	type plain Response
	return json.Marshal(plain(r))
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool { return r.Error != "" }

// ShowInfo returns the show metadata carried by the response.
func (r Response) ShowInfo() ShowInfo {
	return ShowInfo{
		Theater:  r.TheaterName,
		Movie:    r.MovieName,
		Showtime: r.MovieShowtime,
		Date:     r.Date,
	}
}

func errorResponse(msg string) Response { return Response{Error: msg} }
