package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/model"
)

// EventWriter defines the store operations needed to create an event and
// scan it for conflicts.
type EventWriter interface {
	Create(tmpl model.EventTemplate) (model.EventTemplate, error)
	FindConflicts(start, end time.Time, room string, excludeID int) []model.Conflict
}

// EventResult is a stored event plus the advisory conflicts found against
// the other stored events.
type EventResult struct {
	Event     model.EventTemplate
	Conflicts []model.Conflict
}

// CreateEvent stores a new event template and reports any time/room
// overlaps with other events. Conflicts never block creation.
func CreateEvent(store EventWriter, logger *zap.Logger, tmpl model.EventTemplate) (*EventResult, error) {
	stored, err := store.Create(tmpl)
	if err != nil {
		return nil, err
	}

	conflicts := store.FindConflicts(stored.Start, stored.End, stored.Room, stored.ID)

	logger.Info("Event created",
		zap.Int("event_id", stored.ID),
		zap.String("activity", stored.ActivityName),
		zap.String("recurrence", string(stored.Recurrence)),
		zap.Int("conflict_count", len(conflicts)))

	return &EventResult{Event: stored, Conflicts: conflicts}, nil
}
