// Package format holds the pure conversion helpers shared by the forms
// and renderers: local-time form input round-tripping, the default
// deadline policy, escaping of untrusted task text for markup contexts,
// and link handling.
package format

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LocalInputLayout is the datetime-local form value shape.
const LocalInputLayout = "2006-01-02T15:04"

// ToLocalInput converts an absolute instant to the YYYY-MM-DDTHH:mm form
// input string in the viewer's local timezone.
func ToLocalInput(t time.Time) string {
	return t.In(time.Local).Format(LocalInputLayout)
}

// FromLocalInput parses a form input value in local time and returns the
// UTC-normalized instant. An empty string means "no deadline" and yields
// (nil, nil), not an error.
func FromLocalInput(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(LocalInputLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q, use YYYY-MM-DDTHH:MM", s)
	}
	u := t.UTC()
	return &u, nil
}

// DefaultDeadline returns now plus offsetDays with the time of day forced
// to hour:minute local and seconds zeroed.
func DefaultDeadline(now time.Time, offsetDays, hour, minute int) time.Time {
	d := now.In(time.Local).AddDate(0, 0, offsetDays)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

// FormatInstant renders an instant for read-only display in local time.
func FormatInstant(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02 15:04")
}

var displayEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeForDisplay neutralizes the HTML-significant characters in
// task-supplied text. Text without reserved characters passes through
// unchanged; absent input yields an empty string. Required wherever task
// text is interpolated into markup rather than rendered as plain text.
func EscapeForDisplay(s string) string {
	if s == "" {
		return ""
	}
	return displayEscaper.Replace(s)
}

// SplitLinks splits a newline-delimited link field into individual URLs,
// trimming each and dropping blank lines.
func SplitLinks(s string) []string {
	var links []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			links = append(links, line)
		}
	}
	return links
}

// ValidateLinkURL checks a task link before it is dereferenced. Only http
// and https are allowed; anything else (javascript:, file:, relative
// fragments) is rejected. Links come from free-text input and are never
// trusted.
func ValidateLinkURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid link %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return fmt.Errorf("refusing link with scheme %q", u.Scheme)
}
