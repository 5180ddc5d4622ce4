package calendar

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/mergington/activities-api/pkg/core/model"
)

const icalUTCBasic = "20060102T150405Z"

// FormatICal serializes occurrences as an iCalendar document, one VEVENT
// per occurrence, ordered by start time then event id so output is
// deterministic for a given occurrence list.
func FormatICal(occurrences []model.Occurrence) string {
	sorted := append([]model.Occurrence(nil), occurrences...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].EventID < sorted[j].EventID
	})

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Mergington High School//Activities Calendar//EN")

	for _, occ := range sorted {
		event := cal.AddEvent(occurrenceUID(occ))
		event.SetDtStampTime(time.Now().UTC())
		event.SetStartAt(occ.Start)
		event.SetEndAt(occ.End)
		event.SetSummary(occ.Title)
		if occ.Description != "" {
			event.SetDescription(occ.Description)
		}
		if occ.Room != "" {
			event.SetLocation(occ.Room)
		}
		event.SetProperty(ics.ComponentPropertyCategories, occ.ActivityName)
	}

	return cal.Serialize()
}

// occurrenceUID builds a stable per-instance UID from the template id and
// the occurrence start, so repeated exports agree on identity.
func occurrenceUID(occ model.Occurrence) string {
	return fmt.Sprintf("event-%d-%s@mergington.edu", occ.EventID, occ.Start.UTC().Format(icalUTCBasic))
}
