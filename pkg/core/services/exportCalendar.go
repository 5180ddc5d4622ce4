package services

import (
	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/calendar"
)

// ExportCalendar serializes the filtered occurrence list as an iCalendar
// document. The same filter semantics as ListEvents apply.
func ExportCalendar(store TemplateSource, roster ParticipantSource, logger *zap.Logger, filter EventFilter) string {
	occurrences := ListEvents(store, roster, logger, filter)

	logger.Info("Exported calendar", zap.Int("occurrence_count", len(occurrences)))

	return calendar.FormatICal(occurrences)
}
