package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/pkg/core/model"
)

func TestExpand_NonRecurringSingleOccurrence(t *testing.T) {
	tmpl := model.EventTemplate{
		ID:           1,
		Title:        "Chess Tournament",
		ActivityName: "Chess Club",
		Start:        time.Date(2024, 12, 6, 15, 30, 0, 0, time.UTC),
		End:          time.Date(2024, 12, 6, 17, 0, 0, 0, time.UTC),
	}

	occurrences := Expand(tmpl)
	require.Len(t, occurrences, 1)
	assert.Equal(t, tmpl.Start, occurrences[0].Start)
	assert.Equal(t, tmpl.End, occurrences[0].End)
	assert.Equal(t, 1, occurrences[0].EventID)
}

func TestExpand_WeeklyWithCancellation(t *testing.T) {
	tmpl := model.EventTemplate{
		ID:            2,
		Title:         "Drama Rehearsal",
		ActivityName:  "Drama Club",
		Start:         time.Date(2024, 12, 3, 15, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 12, 3, 16, 30, 0, 0, time.UTC),
		Recurrence:    model.RecurrenceWeekly,
		RecurrenceEnd: time.Date(2024, 12, 31, 16, 30, 0, 0, time.UTC),
		CancellationDates: map[string]struct{}{
			"2024-12-10": {},
		},
	}

	occurrences := Expand(tmpl)
	require.Len(t, occurrences, 4)

	wantStarts := []time.Time{
		time.Date(2024, 12, 3, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 17, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 24, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
	}
	for i, want := range wantStarts {
		assert.Equal(t, want, occurrences[i].Start)
		assert.Equal(t, want.Add(90*time.Minute), occurrences[i].End)
	}
}

func TestExpand_DailyDefaultWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tmpl := model.EventTemplate{
		ID:           3,
		Title:        "Morning Run",
		ActivityName: "Gym Class",
		Start:        start,
		End:          start.Add(time.Hour),
		Recurrence:   model.RecurrenceDaily,
	}

	occurrences := Expand(tmpl)
	// The default window is start + 365 days inclusive of both ends, so a
	// daily event yields 366 occurrences.
	assert.Len(t, occurrences, 366)
	assert.Equal(t, start, occurrences[0].Start)
	assert.Equal(t, start.Add(365*24*time.Hour), occurrences[len(occurrences)-1].Start)
}

func TestExpand_MonthlyYearRollover(t *testing.T) {
	tmpl := model.EventTemplate{
		ID:            4,
		Title:         "Book Circle",
		ActivityName:  "Book Club",
		Start:         time.Date(2024, 11, 15, 18, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 11, 15, 19, 0, 0, 0, time.UTC),
		Recurrence:    model.RecurrenceMonthly,
		RecurrenceEnd: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	occurrences := Expand(tmpl)
	require.Len(t, occurrences, 3)
	assert.Equal(t, time.Date(2024, 11, 15, 18, 0, 0, 0, time.UTC), occurrences[0].Start)
	assert.Equal(t, time.Date(2024, 12, 15, 18, 0, 0, 0, time.UTC), occurrences[1].Start)
	assert.Equal(t, time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC), occurrences[2].Start)
}

func TestExpand_MonthlyShortMonthsSkipped(t *testing.T) {
	// A monthly event on the 31st only lands in months that have 31 days.
	tmpl := model.EventTemplate{
		ID:            5,
		Title:         "Month End Review",
		ActivityName:  "Student Council",
		Start:         time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC),
		Recurrence:    model.RecurrenceMonthly,
		RecurrenceEnd: time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC),
	}

	occurrences := Expand(tmpl)
	require.Len(t, occurrences, 3)
	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC), occurrences[0].Start)
	assert.Equal(t, time.Date(2025, 3, 31, 17, 0, 0, 0, time.UTC), occurrences[1].Start)
	assert.Equal(t, time.Date(2025, 5, 31, 17, 0, 0, 0, time.UTC), occurrences[2].Start)
}

func TestExpand_AllDatesCancelled(t *testing.T) {
	tmpl := model.EventTemplate{
		ID:            6,
		Title:         "Weekly Standup",
		ActivityName:  "Chess Club",
		Start:         time.Date(2024, 12, 3, 15, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 12, 3, 15, 30, 0, 0, time.UTC),
		Recurrence:    model.RecurrenceWeekly,
		RecurrenceEnd: time.Date(2024, 12, 10, 23, 0, 0, 0, time.UTC),
		CancellationDates: map[string]struct{}{
			"2024-12-03": {},
			"2024-12-10": {},
		},
	}

	occurrences := Expand(tmpl)
	assert.Empty(t, occurrences)
}

func TestExpand_OccurrenceCarriesTemplateFields(t *testing.T) {
	tmpl := model.EventTemplate{
		ID:            7,
		Title:         "Manga Reading",
		ActivityName:  "Manga Maniacs",
		Description:   "Weekly chapter discussion",
		Room:          "Library",
		Color:         "#ff6600",
		Start:         time.Date(2024, 12, 3, 19, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 12, 3, 20, 0, 0, 0, time.UTC),
		Recurrence:    model.RecurrenceWeekly,
		RecurrenceEnd: time.Date(2024, 12, 10, 23, 0, 0, 0, time.UTC),
	}

	occurrences := Expand(tmpl)
	require.Len(t, occurrences, 2)
	for _, occ := range occurrences {
		assert.Equal(t, 7, occ.EventID)
		assert.Equal(t, "Manga Reading", occ.Title)
		assert.Equal(t, "Manga Maniacs", occ.ActivityName)
		assert.Equal(t, "Weekly chapter discussion", occ.Description)
		assert.Equal(t, "Library", occ.Room)
		assert.Equal(t, "#ff6600", occ.Color)
		assert.Equal(t, model.RecurrenceWeekly, occ.Recurrence)
	}
}
