package seat

import (
	"fmt"
	"strings"
)

// Request is a deduplicated set of seats.  Labels keeps first-seen order so
// messages list seats the way the user typed them.
type Request struct {
	labels []Label
	index  map[Label]struct{}
}

// NewRequest builds a Request from labels, dropping duplicates.
func NewRequest(labels ...Label) Request {
	r := Request{index: make(map[Label]struct{}, len(labels))}
	for _, l := range labels {
		r.add(l)
	}
	return r
}

func (r *Request) add(l Label) {
	if r.index == nil {
		r.index = make(map[Label]struct{})
	}
	if _, ok := r.index[l]; ok {
		return
	}
	r.index[l] = struct{}{}
	r.labels = append(r.labels, l)
}

// ParseRequest converts free text such as "A1, B2-B4," into a Request.
//
// One trailing comma is ignored.  Each comma separated segment is trimmed
// and upper-cased, then read either as a range (when it contains a hyphen)
// or as a single label.  A single bad segment invalidates the whole input.
func ParseRequest(input string) (Request, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Request{}, ErrEmptyInput
	}
	raw = strings.TrimSuffix(raw, ",")

	var req Request
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if strings.Contains(part, "-") {
			rng, err := ParseRange(part)
			if err != nil {
				return Request{}, err
			}
			for _, l := range rng.Labels() {
				req.add(l)
			}
			continue
		}
		l, err := ParseLabel(part)
		if err != nil {
			return Request{}, err
		}
		req.add(l)
	}
	return req, nil
}

// ParseList validates already split seat numbers, as received over the
// wire.  Unlike ParseRequest it does not expand ranges.
func ParseList(seats []string) (Request, error) {
	var req Request
	for _, s := range seats {
		l, err := ParseLabel(s)
		if err != nil {
			return Request{}, err
		}
		req.add(l)
	}
	if req.Len() == 0 {
		return Request{}, fmt.Errorf("%w: no seats", ErrInvalidInput)
	}
	return req, nil
}

// Len returns the number of distinct seats.
func (r Request) Len() int { return len(r.labels) }

// Labels returns the seats in first-seen order.
func (r Request) Labels() []Label {
	out := make([]Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// Strings returns the seats as plain strings.
func (r Request) Strings() []string {
	out := make([]string, len(r.labels))
	for i, l := range r.labels {
		out[i] = string(l)
	}
	return out
}

// Contains reports whether s names a seat in the request.
func (r Request) Contains(s string) bool {
	_, ok := r.index[Label(s)]
	return ok
}
