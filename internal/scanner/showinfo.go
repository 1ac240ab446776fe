package scanner

import (
	"regexp"
	"strings"
	"time"
)

// ShowInfo is the show metadata printed next to the seat map.  It lives for
// a single scan and is never persisted by the scanner.
type ShowInfo struct {
	Theater  string
	Movie    string
	Showtime string     // time text as printed, e.g. "7:30pm"
	DateText string     // date text as printed, e.g. "Today, Feb 16, 2025"
	Date     *time.Time // nil when DateText/Showtime could not be parsed
}

// weekdayPrefix matches the relative or weekday label the site puts in
// front of the date ("Today, ", "Monday, ", "Tue, ").
var weekdayPrefix = regexp.MustCompile(`(?i)^\s*(today|tonight|tomorrow|yesterday|mon(day)?|tue(s(day)?)?|wed(nesday)?|thu(r(s(day)?)?)?|fri(day)?|sat(urday)?|sun(day)?)\s*,\s*`)

var dateTimeLayouts = []string{
	"January 2, 2006 3:04PM",
	"Jan 2, 2006 3:04PM",
	"January 2 2006 3:04PM",
	"Jan 2 2006 3:04PM",
	"1/2/2006 3:04PM",
	"2006-01-02 3:04PM",
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
}

// Layouts for dates printed without a year; the year is taken from now.
var yearlessLayouts = []string{
	"January 2 3:04PM",
	"Jan 2 3:04PM",
	"January 2, 3:04PM",
	"Jan 2, 3:04PM",
}

// StripWeekday removes a leading "Today, " or weekday label from date text.
func StripWeekday(s string) string {
	return strings.TrimSpace(weekdayPrefix.ReplaceAllString(s, ""))
}

// ParseShowDate combines the page's date and time texts into a time in loc.
// It returns nil when no known layout fits; callers pass the nil through
// rather than failing the scan.
func ParseShowDate(dateText, timeText string, loc *time.Location, now time.Time) *time.Time {
	if loc == nil {
		loc = time.Local
	}
	date := StripWeekday(dateText)
	clock := strings.ToUpper(strings.Join(strings.Fields(timeText), ""))
	clock = strings.ReplaceAll(clock, ".", "") // "7:30 p.m."
	if date == "" || clock == "" {
		return nil
	}
	value := date + " " + clock
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			t = t.AddDate(now.In(loc).Year()-t.Year(), 0, 0)
			return &t
		}
	}
	return nil
}

// readShowInfo turns the headline and the metadata list items into
// ShowInfo.  Items are theater, date, time in that order; missing items
// leave the matching fields empty.
func readShowInfo(headline string, items []string, loc *time.Location, now time.Time) ShowInfo {
	item := func(i int) string {
		if i < len(items) {
			return strings.TrimSpace(items[i])
		}
		return ""
	}
	info := ShowInfo{
		Movie:    strings.TrimSpace(headline),
		Theater:  item(0),
		DateText: item(1),
		Showtime: item(2),
	}
	info.Date = ParseShowDate(info.DateText, info.Showtime, loc, now)
	return info
}
