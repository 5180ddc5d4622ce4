package calendar

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/mergington/activities-api/pkg/core/model"
)

// Expand materializes a template into concrete occurrences. Non-recurring
// templates yield exactly one occurrence equal to the template's own range.
// Recurring templates step from the template start using the recurrence
// period while the occurrence start is within the recurrence end, which
// defaults to start plus 365 days when unset. Dates in CancellationDates
// produce no occurrence. The result is recomputed from scratch on every
// call; no state is retained between calls.
func Expand(tmpl model.EventTemplate) []model.Occurrence {
	if !tmpl.Recurrence.IsRecurring() {
		return []model.Occurrence{occurrenceAt(tmpl, tmpl.Start)}
	}

	until := tmpl.RecurrenceEnd
	if until.IsZero() {
		until = tmpl.Start.Add(model.DefaultRecurrenceWindow)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    frequencyOf(tmpl.Recurrence),
		Dtstart: tmpl.Start,
		Until:   until,
	})
	if err != nil {
		// The recurrence fields are validated at store time, so a rule
		// build failure cannot happen for stored templates. Fall back to
		// the nominal range rather than dropping the event.
		return []model.Occurrence{occurrenceAt(tmpl, tmpl.Start)}
	}

	starts := rule.All()
	occurrences := make([]model.Occurrence, 0, len(starts))
	for _, start := range starts {
		if _, cancelled := tmpl.CancellationDates[start.Format(model.DateLayout)]; cancelled {
			continue
		}
		occurrences = append(occurrences, occurrenceAt(tmpl, start))
	}
	return occurrences
}

// frequencyOf maps a recurrence pattern to its rrule frequency. Monthly
// recurrence relies on DTSTART to pin the day of month, so months without
// that day produce no occurrence.
func frequencyOf(r model.Recurrence) rrule.Frequency {
	switch r {
	case model.RecurrenceDaily:
		return rrule.DAILY
	case model.RecurrenceWeekly:
		return rrule.WEEKLY
	default:
		return rrule.MONTHLY
	}
}

func occurrenceAt(tmpl model.EventTemplate, start time.Time) model.Occurrence {
	return model.Occurrence{
		EventID:      tmpl.ID,
		Title:        tmpl.Title,
		ActivityName: tmpl.ActivityName,
		Description:  tmpl.Description,
		Room:         tmpl.Room,
		Color:        tmpl.Color,
		Start:        start,
		End:          start.Add(tmpl.Duration()),
		Recurrence:   tmpl.Recurrence,
	}
}
