package services

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/calendar"
	"github.com/mergington/activities-api/pkg/core/model"
)

// TemplateSource provides a snapshot of all stored event templates.
type TemplateSource interface {
	Templates() []model.EventTemplate
}

// ParticipantSource is the roster lookup used by the participant filter.
type ParticipantSource interface {
	ActivitiesFor(email string) []string
}

// EventFilter narrows the occurrence list. Nil window bounds are open.
// A window match is any overlap, not strict containment. Activity matches
// by exact name; Email keeps occurrences of activities the student is
// signed up for.
type EventFilter struct {
	WindowStart *time.Time
	WindowEnd   *time.Time
	Activity    string
	Email       string
}

// ListEvents expands every stored template into occurrences and applies
// the filter. Occurrences are sorted by start time then event id.
func ListEvents(store TemplateSource, roster ParticipantSource, logger *zap.Logger, filter EventFilter) []model.Occurrence {
	var visible map[string]struct{}
	if filter.Email != "" {
		visible = make(map[string]struct{})
		for _, name := range roster.ActivitiesFor(filter.Email) {
			visible[name] = struct{}{}
		}
	}

	occurrences := []model.Occurrence{}
	templates := store.Templates()
	for _, tmpl := range templates {
		for _, occ := range calendar.Expand(tmpl) {
			if !matchesWindow(occ, filter.WindowStart, filter.WindowEnd) {
				continue
			}
			if filter.Activity != "" && occ.ActivityName != filter.Activity {
				continue
			}
			if visible != nil {
				if _, ok := visible[occ.ActivityName]; !ok {
					continue
				}
			}
			occurrences = append(occurrences, occ)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].Start.Before(occurrences[j].Start)
		}
		return occurrences[i].EventID < occurrences[j].EventID
	})

	logger.Debug("Listed events",
		zap.Int("template_count", len(templates)),
		zap.Int("occurrence_count", len(occurrences)))

	return occurrences
}

// matchesWindow keeps occurrences overlapping the filter window: the
// occurrence end must not precede the window start and the occurrence
// start must not follow the window end. Bounds are inclusive.
func matchesWindow(occ model.Occurrence, start, end *time.Time) bool {
	if start != nil && occ.End.Before(*start) {
		return false
	}
	if end != nil && occ.Start.After(*end) {
		return false
	}
	return true
}
