package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/pkg/core/model"
)

// mockRoster implements RosterSource
type mockRoster struct {
	participants map[string][]string
}

func (m *mockRoster) ActivityExists(name string) bool {
	_, ok := m.participants[name]
	return ok
}

func (m *mockRoster) ParticipantsOf(name string) []string {
	return m.participants[name]
}

func (m *mockRoster) ActivitiesFor(email string) []string {
	var names []string
	for name, participants := range m.participants {
		for _, p := range participants {
			if p == email {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

func testTracker() *Tracker {
	tracker := NewTracker(&mockRoster{participants: map[string][]string{
		"Chess Club": {"michael@mergington.edu", "daniel@mergington.edu"},
		"Drama Club": {"ella@mergington.edu", "michael@mergington.edu"},
	}})
	tracker.now = func() time.Time {
		return time.Date(2024, 12, 10, 12, 0, 0, 0, time.UTC)
	}
	return tracker
}

func TestMark_RecordsAttendance(t *testing.T) {
	tracker := testTracker()

	updated, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
		{Email: "daniel@mergington.edu", Status: model.StatusAbsent},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	records, err := tracker.ForDate("Chess Club", "2024-12-06")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "daniel@mergington.edu", records[0].Email)
	assert.Equal(t, model.StatusAbsent, records[0].Status)
	assert.Equal(t, "michael@mergington.edu", records[1].Email)
	assert.Equal(t, model.StatusPresent, records[1].Status)
}

func TestMark_OverwritesEarlierStatus(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusAbsent},
	})
	require.NoError(t, err)
	_, err = tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
	})
	require.NoError(t, err)

	records, err := tracker.ForDate("Chess Club", "2024-12-06")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusPresent, records[0].Status)
}

func TestMark_TodayAllowed(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-10", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
	})
	assert.NoError(t, err)
}

func TestMark_FutureDateRejected(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-11", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
	})
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestMark_UnknownActivity(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Knitting Circle", "2024-12-06", nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMark_BadDate(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "06/12/2024", nil)
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestMark_UnregisteredStudent(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "stranger@mergington.edu", Status: model.StatusPresent},
	})
	assert.ErrorIs(t, err, model.ErrNotSignedUp)
}

func TestMark_InvalidStatus(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: "tardy"},
	})
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestForDate_UnknownDateEmpty(t *testing.T) {
	tracker := testTracker()

	records, err := tracker.ForDate("Chess Club", "2024-12-06")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestAll_GroupsByDate(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
	})
	require.NoError(t, err)
	_, err = tracker.Mark("Chess Club", "2024-12-09", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusAbsent},
	})
	require.NoError(t, err)

	all, err := tracker.All("Chess Club")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.StatusPresent, all["2024-12-06"][0].Status)
	assert.Equal(t, model.StatusAbsent, all["2024-12-09"][0].Status)
}

func TestStatsFor_ComputesPercentage(t *testing.T) {
	tracker := testTracker()

	dates := []string{"2024-12-02", "2024-12-04", "2024-12-06"}
	statuses := []model.AttendanceStatus{model.StatusPresent, model.StatusAbsent, model.StatusExcused}
	for i, date := range dates {
		_, err := tracker.Mark("Chess Club", date, []Record{
			{Email: "michael@mergington.edu", Status: statuses[i]},
		})
		require.NoError(t, err)
	}

	stats, err := tracker.StatsFor("Chess Club")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Roster order: michael first.
	michael := stats[0]
	assert.Equal(t, "michael@mergington.edu", michael.Email)
	assert.Equal(t, 3, michael.TotalSessions)
	assert.Equal(t, 1, michael.Present)
	assert.Equal(t, 1, michael.Absent)
	assert.Equal(t, 1, michael.Excused)
	// Present and excused both count as attended: 2/3.
	assert.InDelta(t, 66.67, michael.Percentage, 0.001)

	daniel := stats[1]
	assert.Equal(t, "daniel@mergington.edu", daniel.Email)
	assert.Zero(t, daniel.TotalSessions)
	assert.Zero(t, daniel.Percentage)
}

func TestStatsFor_UnknownActivity(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.StatsFor("Knitting Circle")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestForStudent_AcrossActivities(t *testing.T) {
	tracker := testTracker()

	_, err := tracker.Mark("Chess Club", "2024-12-06", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusPresent},
	})
	require.NoError(t, err)
	_, err = tracker.Mark("Drama Club", "2024-12-09", []Record{
		{Email: "michael@mergington.edu", Status: model.StatusExcused},
	})
	require.NoError(t, err)

	records := tracker.ForStudent("michael@mergington.edu")
	require.Len(t, records, 2)
	assert.Equal(t, model.StatusPresent, records["Chess Club"]["2024-12-06"])
	assert.Equal(t, model.StatusExcused, records["Drama Club"]["2024-12-09"])
}

func TestForStudent_NoRecords(t *testing.T) {
	tracker := testTracker()

	records := tracker.ForStudent("ella@mergington.edu")
	assert.Empty(t, records)
}
