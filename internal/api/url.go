package api

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBookingHost is the booking site whose seating pages are supported.
const DefaultBookingHost = "www.amctheatres.com"

// ErrNotSeatingPage is returned for URLs that are not a seat selection page.
var ErrNotSeatingPage = errors.New("not a seating selection page")

var seatingPath = regexp.MustCompile(`^/showtimes/.+/seats`)

// NormalizeURL reduces raw to scheme://host/path, dropping query and
// fragment.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrNotSeatingPage
	}
	return u.Scheme + "://" + u.Host + u.EscapedPath(), nil
}

// SeatingURL normalises raw and checks that it is an https seating page on
// host: https://<host>/showtimes/<anything>/seats.
func SeatingURL(raw, host string) (string, error) {
	norm, err := NormalizeURL(raw)
	if err != nil {
		return "", ErrNotSeatingPage
	}
	u, _ := url.Parse(norm)
	if u.Scheme != "https" || !strings.EqualFold(u.Host, host) || !seatingPath.MatchString(u.Path) {
		return "", ErrNotSeatingPage
	}
	return norm, nil
}
