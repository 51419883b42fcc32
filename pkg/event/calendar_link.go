package event

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	calendarRenderURL = "https://calendar.google.com/calendar/render"
	compactUTCLayout  = "20060102T150405Z"
)

// Layouts accepted for date.start / date.end. Values without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateParseError reports a date field that could not be read as an instant.
type DateParseError struct {
	Field string
	Raw   string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q as a date", e.Field, e.Raw)
}

// ParseDate reads a feed date value.
func ParseDate(field, raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateParseError{Field: field, Raw: raw}
}

// ParseEventTimes parses both ends of the event date. start is not required to
// precede end.
func ParseEventTimes(e Event) (start time.Time, end time.Time, err error) {
	start, err = ParseDate("date.start", e.Date.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseDate("date.end", e.Date.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CompactUTC formats t the way the calendar render endpoint expects it:
// no separators, no fraction, UTC.
func CompactUTC(t time.Time) string {
	return t.UTC().Format(compactUTCLayout)
}

// Details composes the human-readable block placed in the calendar entry.
func Details(e Event) string {
	var b strings.Builder
	b.WriteString(e.Description)
	b.WriteString("\n\n")
	b.WriteString("Event Type: " + e.EventType + "\n")
	b.WriteString("Mode: " + e.Mode + "\n")
	b.WriteString("Tech Stack: " + strings.Join(e.TechStack, ", ") + "\n\n")
	b.WriteString("Prize Pool: " + e.Prizes.TotalPool + "\n")
	b.WriteString("Source: " + e.SourceURL)
	return b.String()
}

// BuildCalendarURL returns a Google Calendar link that pre-fills an event
// creation form. Parameters are always emitted in the same order so equal
// events give byte-identical links.
func BuildCalendarURL(e Event) (string, error) {
	start, end, err := ParseEventTimes(e)
	if err != nil {
		return "", err
	}

	params := [][2]string{
		{"action", "TEMPLATE"},
		{"text", e.Title},
		{"details", Details(e)},
		{"dates", CompactUTC(start) + "/" + CompactUTC(end)},
		{"location", e.Mode},
	}

	var b strings.Builder
	b.WriteString(calendarRenderURL)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(formEscape(p[1]))
	}
	return b.String(), nil
}

// formEscape encodes like a browser's URLSearchParams: '*' stays literal and
// '~' is escaped, the opposite of url.QueryEscape.
func formEscape(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "%2A", "*")
	return strings.ReplaceAll(escaped, "~", "%7E")
}
