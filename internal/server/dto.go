package server

import (
	"time"

	"github.com/mergington/activities-api/pkg/core/calendar"
	"github.com/mergington/activities-api/pkg/core/model"
)

// eventPayload is the JSON shape of a stored event template. Timestamps
// use the naive ISO-8601 layout, no timezone suffix.
type eventPayload struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	ActivityName      string   `json:"activity_name"`
	Description       string   `json:"description,omitempty"`
	Room              string   `json:"room,omitempty"`
	Color             string   `json:"color,omitempty"`
	Start             string   `json:"start"`
	End               string   `json:"end"`
	Recurrence        string   `json:"recurrence,omitempty"`
	RecurrenceEnd     string   `json:"recurrence_end,omitempty"`
	IsCancelled       bool     `json:"is_cancelled"`
	CancellationDates []string `json:"cancellation_dates"`
}

func eventToPayload(t model.EventTemplate) eventPayload {
	p := eventPayload{
		ID:                t.ID,
		Title:             t.Title,
		ActivityName:      t.ActivityName,
		Description:       t.Description,
		Room:              t.Room,
		Color:             t.Color,
		Start:             model.FormatTimestamp(t.Start),
		End:               model.FormatTimestamp(t.End),
		Recurrence:        string(t.Recurrence),
		IsCancelled:       t.IsCancelled,
		CancellationDates: t.CancellationDateList(),
	}
	if !t.RecurrenceEnd.IsZero() {
		p.RecurrenceEnd = model.FormatTimestamp(t.RecurrenceEnd)
	}
	return p
}

// occurrencePayload is one expanded event instance. The id refers to the
// template the occurrence was derived from.
type occurrencePayload struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	ActivityName string `json:"activity_name"`
	Description  string `json:"description,omitempty"`
	Room         string `json:"room,omitempty"`
	Color        string `json:"color,omitempty"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Recurrence   string `json:"recurrence,omitempty"`
}

func occurrenceToPayload(o model.Occurrence) occurrencePayload {
	return occurrencePayload{
		ID:           o.EventID,
		Title:        o.Title,
		ActivityName: o.ActivityName,
		Description:  o.Description,
		Room:         o.Room,
		Color:        o.Color,
		Start:        model.FormatTimestamp(o.Start),
		End:          model.FormatTimestamp(o.End),
		Recurrence:   string(o.Recurrence),
	}
}

func occurrencesToPayload(occs []model.Occurrence) []occurrencePayload {
	out := make([]occurrencePayload, len(occs))
	for i, o := range occs {
		out[i] = occurrenceToPayload(o)
	}
	return out
}

type conflictPayload struct {
	EventID int    `json:"event_id"`
	Title   string `json:"title"`
	Room    string `json:"room,omitempty"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func conflictsToPayload(conflicts []model.Conflict) []conflictPayload {
	out := make([]conflictPayload, len(conflicts))
	for i, c := range conflicts {
		out[i] = conflictPayload{
			EventID: c.EventID,
			Title:   c.Title,
			Room:    c.Room,
			Start:   model.FormatTimestamp(c.Start),
			End:     model.FormatTimestamp(c.End),
		}
	}
	return out
}

// createEventRequest carries all template fields minus the id.
type createEventRequest struct {
	Title         string `json:"title" validate:"required"`
	ActivityName  string `json:"activity_name" validate:"required"`
	Description   string `json:"description"`
	Room          string `json:"room"`
	Color         string `json:"color"`
	Start         string `json:"start" validate:"required"`
	End           string `json:"end" validate:"required"`
	Recurrence    string `json:"recurrence" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEnd string `json:"recurrence_end"`
}

func (r createEventRequest) toTemplate() (model.EventTemplate, error) {
	start, err := model.ParseTimestamp(r.Start)
	if err != nil {
		return model.EventTemplate{}, err
	}
	end, err := model.ParseTimestamp(r.End)
	if err != nil {
		return model.EventTemplate{}, err
	}

	tmpl := model.EventTemplate{
		Title:        r.Title,
		ActivityName: r.ActivityName,
		Description:  r.Description,
		Room:         r.Room,
		Color:        r.Color,
		Start:        start,
		End:          end,
		Recurrence:   model.Recurrence(r.Recurrence),
	}
	if r.RecurrenceEnd != "" {
		tmpl.RecurrenceEnd, err = model.ParseTimestamp(r.RecurrenceEnd)
		if err != nil {
			return model.EventTemplate{}, err
		}
	}
	return tmpl, nil
}

// updateEventRequest is a field-level partial update; absent fields stay
// untouched on the stored template.
type updateEventRequest struct {
	Title         *string `json:"title"`
	ActivityName  *string `json:"activity_name"`
	Description   *string `json:"description"`
	Room          *string `json:"room"`
	Color         *string `json:"color"`
	Start         *string `json:"start"`
	End           *string `json:"end"`
	Recurrence    *string `json:"recurrence" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEnd *string `json:"recurrence_end"`
	IsCancelled   *bool   `json:"is_cancelled"`
}

func (r updateEventRequest) toFields() (calendar.UpdateEventFields, error) {
	fields := calendar.UpdateEventFields{
		Title:        r.Title,
		ActivityName: r.ActivityName,
		Description:  r.Description,
		Room:         r.Room,
		Color:        r.Color,
		IsCancelled:  r.IsCancelled,
	}

	parse := func(s *string) (*time.Time, error) {
		if s == nil {
			return nil, nil
		}
		t, err := model.ParseTimestamp(*s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	var err error
	if fields.Start, err = parse(r.Start); err != nil {
		return calendar.UpdateEventFields{}, err
	}
	if fields.End, err = parse(r.End); err != nil {
		return calendar.UpdateEventFields{}, err
	}
	if fields.RecurrenceEnd, err = parse(r.RecurrenceEnd); err != nil {
		return calendar.UpdateEventFields{}, err
	}
	if r.Recurrence != nil {
		rec := model.Recurrence(*r.Recurrence)
		fields.Recurrence = &rec
	}
	return fields, nil
}

type attendanceRecordPayload struct {
	Email  string `json:"email" validate:"required"`
	Status string `json:"status" validate:"required,oneof=present absent excused"`
}

type attendanceMarkRequest struct {
	Date    string                    `json:"date" validate:"required"`
	Records []attendanceRecordPayload `json:"records" validate:"required,min=1,dive"`
}

type attendanceStatsPayload struct {
	Email         string  `json:"email"`
	TotalSessions int     `json:"total_sessions"`
	Present       int     `json:"present"`
	Absent        int     `json:"absent"`
	Excused       int     `json:"excused"`
	Percentage    float64 `json:"attendance_percentage"`
}
