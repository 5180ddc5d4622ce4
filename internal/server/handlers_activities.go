package server

import (
	"fmt"
	"net/http"

	"github.com/mergington/activities-api/pkg/core/attendance"
	"github.com/mergington/activities-api/pkg/core/model"
)

func (s *Server) handleGetActivities(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.roster.Activities())
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")
	if email == "" {
		s.writeError(w, r, fmt.Errorf("%w: email query parameter is required", model.ErrInvalidFormat))
		return
	}

	if err := s.roster.SignUp(name, email); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")
	if email == "" {
		s.writeError(w, r, fmt.Errorf("%w: email query parameter is required", model.ErrInvalidFormat))
		return
	}

	if err := s.roster.Unregister(name, email); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req attendanceMarkRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	records := make([]attendance.Record, len(req.Records))
	for i, rec := range req.Records {
		records[i] = attendance.Record{Email: rec.Email, Status: model.AttendanceStatus(rec.Status)}
	}

	updated, err := s.attendance.Mark(name, req.Date, records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":         fmt.Sprintf("Attendance marked for %s on %s", name, req.Date),
		"records_updated": updated,
	})
}

func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	date := r.URL.Query().Get("date")

	if date != "" {
		records, err := s.attendance.ForDate(name, date)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"date":    date,
			"records": attendanceRecordsToPayload(records),
		})
		return
	}

	all, err := s.attendance.All(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	byDate := make(map[string][]attendanceRecordPayload, len(all))
	for d, records := range all {
		byDate[d] = attendanceRecordsToPayload(records)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"activity":   name,
		"attendance": byDate,
	})
}

func (s *Server) handleAttendanceStats(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	stats, err := s.attendance.StatsFor(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := make([]attendanceStatsPayload, len(stats))
	for i, st := range stats {
		payload[i] = attendanceStatsPayload{
			Email:         st.Email,
			TotalSessions: st.TotalSessions,
			Present:       st.Present,
			Absent:        st.Absent,
			Excused:       st.Excused,
			Percentage:    st.Percentage,
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"activity":   name,
		"statistics": payload,
	})
}

func (s *Server) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	records := s.attendance.ForStudent(email)
	if len(records) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"email":      email,
			"message":    "No attendance records found",
			"attendance": map[string]any{},
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"email":      email,
		"attendance": records,
	})
}

func attendanceRecordsToPayload(records []attendance.Record) []attendanceRecordPayload {
	out := make([]attendanceRecordPayload, len(records))
	for i, rec := range records {
		out[i] = attendanceRecordPayload{Email: rec.Email, Status: string(rec.Status)}
	}
	return out
}
