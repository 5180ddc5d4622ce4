package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/config"
	"github.com/mergington/activities-api/pkg/core/attendance"
	"github.com/mergington/activities-api/pkg/core/calendar"
	"github.com/mergington/activities-api/pkg/core/model"
	"github.com/mergington/activities-api/pkg/core/roster"
)

// Server is the HTTP surface over the roster, attendance and calendar cores.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	roster     *roster.Store
	attendance *attendance.Tracker
	events     *calendar.Store
	validate   *validator.Validate
}

// New creates a server over the given stores.
func New(cfg *config.Config, logger *zap.Logger, rosterStore *roster.Store, tracker *attendance.Tracker, events *calendar.Store) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		roster:     rosterStore,
		attendance: tracker,
		events:     events,
		validate:   validator.New(),
	}
}

// Handler builds the route table and wraps it with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	if s.cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	mux.HandleFunc("GET /activities", s.handleGetActivities)
	mux.HandleFunc("POST /activities/{name}/signup", s.handleSignup)
	mux.HandleFunc("DELETE /activities/{name}/unregister", s.handleUnregister)
	mux.HandleFunc("POST /activities/{name}/attendance", s.handleMarkAttendance)
	mux.HandleFunc("GET /activities/{name}/attendance", s.handleGetAttendance)
	mux.HandleFunc("GET /activities/{name}/attendance/stats", s.handleAttendanceStats)
	mux.HandleFunc("GET /students/{email}/attendance", s.handleStudentAttendance)

	mux.HandleFunc("POST /calendar/events", s.handleCreateEvent)
	mux.HandleFunc("GET /calendar/events", s.handleListEvents)
	mux.HandleFunc("GET /calendar/events/{id}", s.handleGetEvent)
	mux.HandleFunc("PUT /calendar/events/{id}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /calendar/events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("POST /calendar/events/{id}/cancel-date", s.handleCancelDate)
	mux.HandleFunc("GET /calendar/export", s.handleExport)

	return s.requestLogger(mux)
}

// Start runs the HTTP server until it fails or the process exits.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	s.logger.Info("Starting server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// decodeAndValidate parses the JSON body into v and runs struct validation.
func (s *Server) decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", model.ErrInvalidFormat, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps domain errors to HTTP statuses with a {"detail": ...} body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrInvalidFormat),
		errors.Is(err, model.ErrInvalidState),
		errors.Is(err, model.ErrAlreadySignedUp),
		errors.Is(err, model.ErrNotSignedUp):
		status = http.StatusBadRequest
	default:
		s.log(r).Error("Unhandled error", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}
