package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/model"
)

// mockParticipants implements ParticipantSource
type mockParticipants struct {
	byEmail map[string][]string
}

func (m *mockParticipants) ActivitiesFor(email string) []string {
	return m.byEmail[email]
}

func listFixtures() []model.EventTemplate {
	return []model.EventTemplate{
		{
			ID:           1,
			Title:        "Chess Tournament",
			ActivityName: "Chess Club",
			Start:        time.Date(2024, 12, 6, 15, 30, 0, 0, time.UTC),
			End:          time.Date(2024, 12, 6, 17, 0, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Title:         "Drama Rehearsal",
			ActivityName:  "Drama Club",
			Start:         time.Date(2024, 12, 3, 15, 0, 0, 0, time.UTC),
			End:           time.Date(2024, 12, 3, 16, 30, 0, 0, time.UTC),
			Recurrence:    model.RecurrenceWeekly,
			RecurrenceEnd: time.Date(2024, 12, 17, 23, 0, 0, 0, time.UTC),
		},
	}
}

func TestListEvents_ExpandsAndSorts(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	occurrences := ListEvents(store, roster, logger, EventFilter{})
	require.Len(t, occurrences, 4)

	// Sorted by start: Dec 3, Dec 6, Dec 10, Dec 17.
	assert.Equal(t, 2, occurrences[0].EventID)
	assert.Equal(t, 1, occurrences[1].EventID)
	assert.Equal(t, 2, occurrences[2].EventID)
	assert.Equal(t, 2, occurrences[3].EventID)
	for i := 1; i < len(occurrences); i++ {
		assert.False(t, occurrences[i].Start.Before(occurrences[i-1].Start))
	}
}

func TestListEvents_WindowFilterKeepsOverlaps(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	// Window cutting through the middle of the chess tournament still
	// includes it; containment is not required.
	start := time.Date(2024, 12, 6, 16, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 6, 16, 30, 0, 0, time.UTC)
	occurrences := ListEvents(store, roster, logger, EventFilter{WindowStart: &start, WindowEnd: &end})

	require.Len(t, occurrences, 1)
	assert.Equal(t, 1, occurrences[0].EventID)
}

func TestListEvents_WindowBoundsInclusive(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	// Window end exactly at the occurrence start keeps the occurrence.
	end := time.Date(2024, 12, 6, 15, 30, 0, 0, time.UTC)
	start := time.Date(2024, 12, 6, 0, 0, 0, 0, time.UTC)
	occurrences := ListEvents(store, roster, logger, EventFilter{WindowStart: &start, WindowEnd: &end})

	require.Len(t, occurrences, 1)
	assert.Equal(t, 1, occurrences[0].EventID)
}

func TestListEvents_ActivityFilter(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	occurrences := ListEvents(store, roster, logger, EventFilter{Activity: "Drama Club"})
	require.Len(t, occurrences, 3)
	for _, occ := range occurrences {
		assert.Equal(t, "Drama Club", occ.ActivityName)
	}
}

func TestListEvents_EmailFilter(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{byEmail: map[string][]string{
		"emma@mergington.edu": {"Chess Club"},
	}}
	logger := zap.NewNop()

	occurrences := ListEvents(store, roster, logger, EventFilter{Email: "emma@mergington.edu"})
	require.Len(t, occurrences, 1)
	assert.Equal(t, "Chess Club", occurrences[0].ActivityName)
}

func TestListEvents_EmailWithNoSignupsSeesNothing(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	occurrences := ListEvents(store, roster, logger, EventFilter{Email: "nobody@mergington.edu"})
	assert.Empty(t, occurrences)
}

func TestListEvents_EmptyStore(t *testing.T) {
	store := &mockEventStore{}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	occurrences := ListEvents(store, roster, logger, EventFilter{})
	assert.NotNil(t, occurrences)
	assert.Empty(t, occurrences)
}

func TestExportCalendar_SerializesFilteredEvents(t *testing.T) {
	store := &mockEventStore{templates: listFixtures()}
	roster := &mockParticipants{}
	logger := zap.NewNop()

	out := ExportCalendar(store, roster, logger, EventFilter{Activity: "Chess Club"})

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Chess Tournament")
	assert.NotContains(t, out, "SUMMARY:Drama Rehearsal")
}
