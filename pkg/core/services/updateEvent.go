package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/calendar"
	"github.com/mergington/activities-api/pkg/core/model"
)

// EventUpdater defines the store operations needed to apply a partial
// update and rescan for conflicts.
type EventUpdater interface {
	Update(id int, fields calendar.UpdateEventFields) (model.EventTemplate, error)
	FindConflicts(start, end time.Time, room string, excludeID int) []model.Conflict
}

// UpdateEventResult is the updated event plus conflicts when the update
// changed the event's time range. RangeChanged tells the caller whether
// Conflicts is meaningful; an update that left start and end untouched
// reports no conflict information at all.
type UpdateEventResult struct {
	Event        model.EventTemplate
	Conflicts    []model.Conflict
	RangeChanged bool
}

// UpdateEvent applies a field-level partial update. A fresh conflict scan
// runs only when start or end was supplied.
func UpdateEvent(store EventUpdater, logger *zap.Logger, id int, fields calendar.UpdateEventFields) (*UpdateEventResult, error) {
	updated, err := store.Update(id, fields)
	if err != nil {
		return nil, err
	}

	result := &UpdateEventResult{Event: updated, RangeChanged: fields.RangeChanged()}
	if result.RangeChanged {
		result.Conflicts = store.FindConflicts(updated.Start, updated.End, updated.Room, updated.ID)
	}

	logger.Info("Event updated",
		zap.Int("event_id", id),
		zap.Bool("range_changed", result.RangeChanged),
		zap.Int("conflict_count", len(result.Conflicts)))

	return result, nil
}
