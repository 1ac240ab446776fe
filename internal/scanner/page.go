package scanner

import (
	"context"
	"errors"
	"strings"
)

// Selectors and class names of the booking site's seat map.
const (
	// MetaSelector locates the metadata list (theater, date, time) that
	// follows the movie headline.
	MetaSelector = ".headline + ul"
	// ZoomSelector locates the round zoom-in control of the seat map.
	ZoomSelector = ".rounded-full.bg-gray-400.p-4"
	// UnavailableClass marks a seat button that cannot be clicked.
	UnavailableClass = "cursor-not-allowed"
)

var (
	// ErrProbeMissing is returned by a page whose scanner probe has not been
	// installed yet.  Injecting the probe and retrying recovers from it.
	ErrProbeMissing = errors.New("scanner: probe not installed in page")
	// ErrNoShowInfo is returned when the metadata list cannot be found.
	ErrNoShowInfo = errors.New("scanner: show metadata not found")
)

// Element is a clickable element as seen by the scanner.
type Element struct {
	Text    string   `json:"text"`
	Classes []string `json:"classes"`
}

// Label returns the trimmed text content.
func (e Element) Label() string { return strings.TrimSpace(e.Text) }

// HasClass reports whether the element carries class c.
func (e Element) HasClass(c string) bool {
	for _, cl := range e.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// Occupied reports whether the element is styled as not clickable.
func (e Element) Occupied() bool { return e.HasClass(UnavailableClass) }

// Page is the DOM surface the scanner needs.
type Page interface {
	// Buttons returns every clickable element currently rendered.
	Buttons(ctx context.Context) ([]Element, error)
	// ShowMeta returns the headline text and the texts of the metadata list
	// items.  It returns ErrNoShowInfo when the list is absent.
	ShowMeta(ctx context.Context) (headline string, items []string, err error)
	// ClickZoom activates the zoom-in control and reports whether it was
	// present.
	ClickZoom(ctx context.Context) (bool, error)
}
