package attendance

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mergington/activities-api/pkg/core/model"
)

// RosterSource is the roster collaborator the tracker validates against.
type RosterSource interface {
	ActivityExists(name string) bool
	ParticipantsOf(name string) []string
	ActivitiesFor(email string) []string
}

// Record is one student's status for a session.
type Record struct {
	Email  string
	Status model.AttendanceStatus
}

// Stats summarizes one participant's attendance across all sessions of an
// activity. Percentage counts present and excused sessions as attended.
type Stats struct {
	Email         string
	TotalSessions int
	Present       int
	Absent        int
	Excused       int
	Percentage    float64
}

// Tracker holds per-activity, per-date, per-student attendance in memory.
type Tracker struct {
	mu     sync.RWMutex
	roster RosterSource

	// activity -> date (YYYY-MM-DD) -> email -> status
	records map[string]map[string]map[string]model.AttendanceStatus

	now func() time.Time
}

// NewTracker creates an attendance tracker backed by the given roster.
func NewTracker(roster RosterSource) *Tracker {
	return &Tracker{
		roster:  roster,
		records: make(map[string]map[string]map[string]model.AttendanceStatus),
		now:     time.Now,
	}
}

// Mark records attendance for one activity session. Marking the same
// student twice for a date overwrites the earlier status. Future dates are
// rejected. Returns the number of records written.
func (t *Tracker) Mark(activity, dateStr string, records []Record) (int, error) {
	if !t.roster.ActivityExists(activity) {
		return 0, fmt.Errorf("%w: activity %q", model.ErrNotFound, activity)
	}

	date, err := model.ParseDate(dateStr)
	if err != nil {
		return 0, err
	}

	today := t.now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(todayDate) {
		return 0, fmt.Errorf("%w: cannot mark attendance for future dates", model.ErrInvalidState)
	}

	registered := make(map[string]struct{})
	for _, p := range t.roster.ParticipantsOf(activity) {
		registered[p] = struct{}{}
	}
	for _, rec := range records {
		if _, ok := registered[rec.Email]; !ok {
			return 0, fmt.Errorf("%w: student %s is not registered for %s", model.ErrNotSignedUp, rec.Email, activity)
		}
		if !rec.Status.Valid() {
			return 0, fmt.Errorf("%w: invalid attendance status %q", model.ErrInvalidFormat, rec.Status)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	byDate, ok := t.records[activity]
	if !ok {
		byDate = make(map[string]map[string]model.AttendanceStatus)
		t.records[activity] = byDate
	}
	byEmail, ok := byDate[dateStr]
	if !ok {
		byEmail = make(map[string]model.AttendanceStatus)
		byDate[dateStr] = byEmail
	}
	for _, rec := range records {
		byEmail[rec.Email] = rec.Status
	}
	return len(records), nil
}

// ForDate returns the records of one session, sorted by email. An unknown
// date yields an empty list, matching the read semantics of the API.
func (t *Tracker) ForDate(activity, dateStr string) ([]Record, error) {
	if !t.roster.ActivityExists(activity) {
		return nil, fmt.Errorf("%w: activity %q", model.ErrNotFound, activity)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := []Record{}
	for email, status := range t.records[activity][dateStr] {
		out = append(out, Record{Email: email, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// All returns every recorded session of an activity keyed by date.
func (t *Tracker) All(activity string) (map[string][]Record, error) {
	if !t.roster.ActivityExists(activity) {
		return nil, fmt.Errorf("%w: activity %q", model.ErrNotFound, activity)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string][]Record)
	for date, byEmail := range t.records[activity] {
		recs := make([]Record, 0, len(byEmail))
		for email, status := range byEmail {
			recs = append(recs, Record{Email: email, Status: status})
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].Email < recs[j].Email })
		out[date] = recs
	}
	return out, nil
}

// StatsFor computes per-participant attendance statistics for an activity,
// in roster order.
func (t *Tracker) StatsFor(activity string) ([]Stats, error) {
	if !t.roster.ActivityExists(activity) {
		return nil, fmt.Errorf("%w: activity %q", model.ErrNotFound, activity)
	}
	participants := t.roster.ParticipantsOf(activity)

	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make([]Stats, 0, len(participants))
	for _, email := range participants {
		s := Stats{Email: email}
		for _, byEmail := range t.records[activity] {
			status, ok := byEmail[email]
			if !ok {
				continue
			}
			s.TotalSessions++
			switch status {
			case model.StatusPresent:
				s.Present++
			case model.StatusAbsent:
				s.Absent++
			case model.StatusExcused:
				s.Excused++
			}
		}
		if s.TotalSessions > 0 {
			pct := float64(s.Present+s.Excused) / float64(s.TotalSessions) * 100
			s.Percentage = math.Round(pct*100) / 100
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// ForStudent returns a student's records across every activity they are
// signed up for, keyed by activity then date. Activities with no records
// for the student are omitted.
func (t *Tracker) ForStudent(email string) map[string]map[string]model.AttendanceStatus {
	activities := t.roster.ActivitiesFor(email)

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]map[string]model.AttendanceStatus)
	for _, activity := range activities {
		byActivity := make(map[string]model.AttendanceStatus)
		for date, byEmail := range t.records[activity] {
			if status, ok := byEmail[email]; ok {
				byActivity[date] = status
			}
		}
		if len(byActivity) > 0 {
			out[activity] = byActivity
		}
	}
	return out
}
