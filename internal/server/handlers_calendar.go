package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mergington/activities-api/pkg/core/model"
	"github.com/mergington/activities-api/pkg/core/services"
)

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpl, err := req.toTemplate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := services.CreateEvent(s.events, s.log(r), tmpl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Event created successfully",
		"event":         eventToPayload(result.Event),
		"conflicts":     conflictsToPayload(result.Conflicts),
		"has_conflicts": len(result.Conflicts) > 0,
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	occurrences := services.ListEvents(s.events, s.roster, s.log(r), filter)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"events": occurrencesToPayload(occurrences),
		"count":  len(occurrences),
	})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tmpl, err := s.events.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, eventToPayload(tmpl))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateEventRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	fields, err := req.toFields()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := services.UpdateEvent(s.events, s.log(r), id, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := map[string]any{
		"message": "Event updated successfully",
		"event":   eventToPayload(result.Event),
	}
	// Conflict information is only reported when the time range moved.
	if result.RangeChanged {
		resp["conflicts"] = conflictsToPayload(result.Conflicts)
		resp["has_conflicts"] = len(result.Conflicts) > 0
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.events.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log(r).Info("Event deleted", zap.Int("event_id", id))
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Event %d deleted successfully", id),
	})
}

func (s *Server) handleCancelDate(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dateStr := r.URL.Query().Get("date_str")
	if dateStr == "" {
		s.writeError(w, r, fmt.Errorf("%w: date_str query parameter is required", model.ErrInvalidFormat))
		return
	}

	tmpl, err := s.events.CancelDate(id, dateStr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Event occurrence on %s cancelled", dateStr),
		"event":   eventToPayload(tmpl),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter := services.EventFilter{
		Activity: r.URL.Query().Get("activity"),
		Email:    r.URL.Query().Get("email"),
	}

	payload := services.ExportCalendar(s.events, s.roster, s.log(r), filter)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=mergington_calendar.ics")
	if _, err := w.Write([]byte(payload)); err != nil {
		s.log(r).Error("Failed to write calendar response", zap.Error(err))
	}
}

func eventID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid event id %q", model.ErrInvalidFormat, r.PathValue("id"))
	}
	return id, nil
}

func eventFilterFromQuery(r *http.Request) (services.EventFilter, error) {
	filter := services.EventFilter{
		Activity: r.URL.Query().Get("activity"),
		Email:    r.URL.Query().Get("email"),
	}

	parse := func(key string) (*time.Time, error) {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return nil, nil
		}
		t, err := model.ParseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	var err error
	if filter.WindowStart, err = parse("start"); err != nil {
		return services.EventFilter{}, err
	}
	if filter.WindowEnd, err = parse("end"); err != nil {
		return services.EventFilter{}, err
	}
	return filter, nil
}
