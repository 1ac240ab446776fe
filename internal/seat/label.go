// Package seat parses and validates the seat identifiers a user types in:
// single labels such as "A12", comma separated lists and same-row ranges
// such as "A1-A5".
package seat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Bounds of the numeric part of a seat label.
const (
	MinNumber = 1
	MaxNumber = 50
)

// InvalidInputMessage is shown to the user whenever seat input fails
// validation.  It is surfaced verbatim.
const InvalidInputMessage = "Each seat must be one letter (A-Z) followed by a number (1-50). Example: 'A1' or 'A1, B1, C1' or 'A1-A5'."

var (
	// ErrInvalidInput is returned for any malformed label, range or list.
	ErrInvalidInput = errors.New(InvalidInputMessage)
	// ErrEmptyInput is returned when the user has not typed anything yet.
	ErrEmptyInput = errors.New("seat input is empty")
)

// labelPattern accepts a row letter followed by 1-9, 10-49 or exactly 50.
var labelPattern = regexp.MustCompile(`^[A-Z]([1-9]|[1-4][0-9]|50)$`)

// PagePattern is the looser shape seat buttons carry on the booking page:
// one uppercase letter followed by one or two digits.
var PagePattern = regexp.MustCompile(`^[A-Z][0-9]{1,2}$`)

// Label is a validated seat identifier such as "A12".
type Label string

// Valid reports whether s is already a canonical seat label.  The check is
// case sensitive; callers normalise input with ParseLabel.
func Valid(s string) bool {
	return labelPattern.MatchString(s)
}

// ParseLabel trims and upper-cases s and validates it as a seat label.
func ParseLabel(s string) (Label, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if !Valid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return Label(norm), nil
}

// MustLabel is like ParseLabel but panics on invalid input.  Intended for
// constants and tests.
func MustLabel(s string) Label {
	l, err := ParseLabel(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Row returns the row letter.
func (l Label) Row() byte { return l[0] }

// Number returns the seat number within the row.
func (l Label) Number() int {
	n, _ := strconv.Atoi(string(l[1:]))
	return n
}

func (l Label) String() string { return string(l) }

// Range is an inclusive span of seats in one row, e.g. A1-A5.
type Range struct {
	Row        byte
	Start, End int
}

// ParseRange parses "A1-A5".  Both endpoints must be valid labels in the
// same row and the start must not exceed the end.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: range %q", ErrInvalidInput, s)
	}
	start, err := ParseLabel(parts[0])
	if err != nil {
		return Range{}, err
	}
	end, err := ParseLabel(parts[1])
	if err != nil {
		return Range{}, err
	}
	if start.Row() != end.Row() {
		return Range{}, fmt.Errorf("%w: range %q spans rows", ErrInvalidInput, s)
	}
	r := Range{Row: start.Row(), Start: start.Number(), End: end.Number()}
	if r.Start > r.End || r.Start < MinNumber || r.End > MaxNumber {
		return Range{}, fmt.Errorf("%w: range %q out of order", ErrInvalidInput, s)
	}
	return r, nil
}

// Labels expands the range into its individual seats.
func (r Range) Labels() []Label {
	out := make([]Label, 0, r.End-r.Start+1)
	for n := r.Start; n <= r.End; n++ {
		out = append(out, Label(fmt.Sprintf("%c%d", r.Row, n)))
	}
	return out
}
