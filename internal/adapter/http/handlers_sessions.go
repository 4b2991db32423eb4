package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"focusflow/internal/app"
	"focusflow/internal/domain"
)

type createSessionRequest struct {
	Type      string     `json:"type"`
	StartTime *time.Time `json:"startTime"`
}

// @Summary List or start sessions
// @Description GET lists the caller's sessions newest first. POST starts a new active session.
// @Tags sessions
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of sessions to return"
// @Param body body createSessionRequest false "Session to start (POST)"
// @Success 200 {array} domain.Session
// @Success 201 {object} domain.Session
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /sessions [get]
// @Router /sessions [post]
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		items, err := s.sessions.List(r.Context(), user.ID, intQuery(r, "limit", 0))
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var body createSessionRequest
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var start time.Time
		if body.StartTime != nil {
			start = *body.StartTime
		}
		created, err := s.sessions.Create(r.Context(), user.ID, body.Type, start)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// @Summary Get or terminate a session
// @Description PUT completes or aborts an active session. Exactly one of completed and aborted must be true.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param body body domain.SessionPatch false "Termination values (PUT)"
// @Success 200 {object} domain.Session
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id} [get]
// @Router /sessions/{id} [put]
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sess, err := s.sessions.Get(r.Context(), id, user.ID)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)

	case http.MethodPut:
		var patch domain.SessionPatch
		if err := parseJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := s.sessions.Terminate(r.Context(), id, user.ID, patch)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

// @Summary Record a blocked-site visit
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 409 {object} map[string]string "Session already ended"
// @Router /sessions/{id}/blocked-hit [post]
func (s *Server) handleBlockedHit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.sessions.RecordBlockedHit(r.Context(), id, user.ID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// @Summary Today's sessions and summary
// @Tags stats
// @Produce json
// @Success 200 {object} app.TodayStats
// @Router /sessions/today [get]
func (s *Server) handleSessionsToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	user := userFromContext(r.Context())
	out, err := s.stats.Today(r.Context(), user.ID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// @Summary Daily statistics over a trailing window
// @Tags stats
// @Produce json
// @Param days query int false "Window length in days (default 7, max 366)"
// @Success 200 {object} app.RangeStats
// @Failure 400 {object} map[string]string
// @Router /sessions/stats [get]
func (s *Server) handleSessionsStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	user := userFromContext(r.Context())

	days := app.DefaultStatsDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("days must be an integer"))
			return
		}
		days = n
	}

	out, err := s.stats.Range(r.Context(), user.ID, days)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
