package model

import (
	"fmt"
	"sort"
	"time"
)

const (
	// TimestampLayout is the naive ISO-8601 layout used by the API for
	// event start/end values. No timezone is enforced.
	TimestampLayout = "2006-01-02T15:04:05"

	// DateLayout is the calendar-date layout used for cancellation dates
	// and attendance sessions.
	DateLayout = "2006-01-02"

	// DefaultRecurrenceWindow bounds recurring events that were created
	// without an explicit recurrence end.
	DefaultRecurrenceWindow = 365 * 24 * time.Hour
)

// Recurrence is the repeat pattern of an event template.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// IsRecurring reports whether the recurrence produces more than one occurrence.
func (r Recurrence) IsRecurring() bool {
	return r != RecurrenceNone
}

// Valid reports whether the recurrence is one of the supported patterns.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// EventTemplate is a stored calendar entry definition, possibly recurring.
// Occurrences are derived from templates on demand and never stored.
type EventTemplate struct {
	ID           int
	Title        string
	ActivityName string
	Description  string
	Room         string
	Color        string

	Start time.Time
	End   time.Time

	Recurrence    Recurrence
	RecurrenceEnd time.Time // zero when Recurrence is RecurrenceNone

	IsCancelled bool

	// CancellationDates holds calendar dates (DateLayout keys) on which a
	// recurring template produces no occurrence.
	CancellationDates map[string]struct{}
}

// Duration returns the template's nominal duration, applied to every
// generated occurrence.
func (t *EventTemplate) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// CancellationDateList returns the cancelled dates in sorted order.
func (t *EventTemplate) CancellationDateList() []string {
	dates := make([]string, 0, len(t.CancellationDates))
	for d := range t.CancellationDates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy of the template. Stores hand out clones so
// callers can never mutate stored state through a returned value.
func (t *EventTemplate) Clone() EventTemplate {
	out := *t
	out.CancellationDates = make(map[string]struct{}, len(t.CancellationDates))
	for d := range t.CancellationDates {
		out.CancellationDates[d] = struct{}{}
	}
	return out
}

// Occurrence is one concrete materialized instance of a template on a
// specific date. Produced fresh on every query and never persisted.
type Occurrence struct {
	EventID      int
	Title        string
	ActivityName string
	Description  string
	Room         string
	Color        string
	Start        time.Time
	End          time.Time
	Recurrence   Recurrence
}

// Conflict describes a reported time/room overlap between two templates.
// Conflicts are advisory only and never block a mutation.
type Conflict struct {
	EventID int
	Title   string
	Room    string
	Start   time.Time
	End     time.Time
}

// AttendanceStatus is the recorded state of a student for one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether the status is one of the supported values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// ParseTimestamp parses a naive ISO-8601 timestamp. RFC 3339 values with an
// explicit offset are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q, expected %s", ErrInvalidFormat, s, TimestampLayout)
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
	}
	return t, nil
}

// FormatTimestamp renders a timestamp in the API's naive ISO-8601 layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
