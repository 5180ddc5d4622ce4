package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rdleal/intervalst/interval"

	"github.com/mergington/activities-api/pkg/core/model"
)

// ActivityChecker is the roster collaborator the store validates
// activity names against.
type ActivityChecker interface {
	ActivityExists(name string) bool
}

// UpdateEventFields is a partial update: only non-nil fields are applied.
type UpdateEventFields struct {
	Title        *string
	ActivityName *string
	Description  *string
	Room         *string
	Color        *string

	Start *time.Time
	End   *time.Time

	Recurrence    *model.Recurrence
	RecurrenceEnd *time.Time

	IsCancelled *bool
}

// RangeChanged reports whether the update touches the event's time range,
// which triggers range re-validation and a fresh conflict scan.
func (f UpdateEventFields) RangeChanged() bool {
	return f.Start != nil || f.End != nil
}

// Store holds event templates keyed by a sequential integer id. Ids start
// at 1 and are never reused within a process lifetime. A single mutex
// guards the template map, the id counter and the conflict index.
type Store struct {
	mu        sync.Mutex
	roster    ActivityChecker
	templates map[int]*model.EventTemplate
	nextID    int

	// conflictIdx indexes the nominal start/end of every stored template.
	// Rebuilt after each mutation; queried by FindConflicts.
	conflictIdx *interval.MultiValueSearchTree[int, time.Time]
}

// NewStore creates an empty event store validating against the given roster.
func NewStore(roster ActivityChecker) *Store {
	s := &Store{
		roster:    roster,
		templates: make(map[int]*model.EventTemplate),
		nextID:    1,
	}
	s.reindex()
	return s
}

// Create validates and stores a new template, assigning the next id.
// The returned template is a copy of the stored state.
func (s *Store) Create(tmpl model.EventTemplate) (model.EventTemplate, error) {
	if !s.roster.ActivityExists(tmpl.ActivityName) {
		return model.EventTemplate{}, fmt.Errorf("%w: activity %q", model.ErrNotFound, tmpl.ActivityName)
	}
	if !tmpl.Recurrence.Valid() {
		return model.EventTemplate{}, fmt.Errorf("%w: unknown recurrence %q", model.ErrInvalidFormat, tmpl.Recurrence)
	}
	if !tmpl.End.After(tmpl.Start) {
		return model.EventTemplate{}, fmt.Errorf("%w: end must be after start", model.ErrInvalidRange)
	}
	if tmpl.Recurrence.IsRecurring() && tmpl.RecurrenceEnd.IsZero() {
		tmpl.RecurrenceEnd = tmpl.Start.Add(model.DefaultRecurrenceWindow)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl.ID = s.nextID
	s.nextID++
	tmpl.IsCancelled = false
	tmpl.CancellationDates = make(map[string]struct{})

	stored := tmpl.Clone()
	s.templates[tmpl.ID] = &stored
	s.reindex()

	return tmpl, nil
}

// Get returns a copy of the template with the given id.
func (s *Store) Get(id int) (model.EventTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return model.EventTemplate{}, fmt.Errorf("%w: event %d", model.ErrNotFound, id)
	}
	return tmpl.Clone(), nil
}

// Update applies the non-nil fields to the stored template. When start or
// end is supplied the resulting range is re-validated.
func (s *Store) Update(id int, fields UpdateEventFields) (model.EventTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return model.EventTemplate{}, fmt.Errorf("%w: event %d", model.ErrNotFound, id)
	}

	updated := tmpl.Clone()
	if fields.Title != nil {
		updated.Title = *fields.Title
	}
	if fields.ActivityName != nil {
		if !s.roster.ActivityExists(*fields.ActivityName) {
			return model.EventTemplate{}, fmt.Errorf("%w: activity %q", model.ErrNotFound, *fields.ActivityName)
		}
		updated.ActivityName = *fields.ActivityName
	}
	if fields.Description != nil {
		updated.Description = *fields.Description
	}
	if fields.Room != nil {
		updated.Room = *fields.Room
	}
	if fields.Color != nil {
		updated.Color = *fields.Color
	}
	if fields.Start != nil {
		updated.Start = *fields.Start
	}
	if fields.End != nil {
		updated.End = *fields.End
	}
	if fields.Recurrence != nil {
		if !fields.Recurrence.Valid() {
			return model.EventTemplate{}, fmt.Errorf("%w: unknown recurrence %q", model.ErrInvalidFormat, *fields.Recurrence)
		}
		updated.Recurrence = *fields.Recurrence
	}
	if fields.RecurrenceEnd != nil {
		updated.RecurrenceEnd = *fields.RecurrenceEnd
	}
	if fields.IsCancelled != nil {
		updated.IsCancelled = *fields.IsCancelled
	}

	if fields.RangeChanged() && !updated.End.After(updated.Start) {
		return model.EventTemplate{}, fmt.Errorf("%w: end must be after start", model.ErrInvalidRange)
	}
	if updated.Recurrence.IsRecurring() && updated.RecurrenceEnd.IsZero() {
		updated.RecurrenceEnd = updated.Start.Add(model.DefaultRecurrenceWindow)
	}

	*tmpl = updated
	s.reindex()

	return tmpl.Clone(), nil
}

// Delete removes the template and all its virtual occurrences. The id is
// not reused afterwards.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("%w: event %d", model.ErrNotFound, id)
	}
	delete(s.templates, id)
	s.reindex()
	return nil
}

// CancelDate adds a per-instance cancellation date to a recurring template.
// Cancelling an already-cancelled date is a no-op.
func (s *Store) CancelDate(id int, dateStr string) (model.EventTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl, ok := s.templates[id]
	if !ok {
		return model.EventTemplate{}, fmt.Errorf("%w: event %d", model.ErrNotFound, id)
	}
	if !tmpl.Recurrence.IsRecurring() {
		return model.EventTemplate{}, fmt.Errorf("%w: event %d is not recurring", model.ErrInvalidState, id)
	}
	if _, err := model.ParseDate(dateStr); err != nil {
		return model.EventTemplate{}, err
	}

	tmpl.CancellationDates[dateStr] = struct{}{}
	return tmpl.Clone(), nil
}

// Templates returns a snapshot of all stored templates sorted by id.
func (s *Store) Templates() []model.EventTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.EventTemplate, 0, len(s.templates))
	for _, tmpl := range s.templates {
		out = append(out, tmpl.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
