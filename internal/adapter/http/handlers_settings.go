package adapthttp

import (
	"net/http"

	"focusflow/internal/domain"
)

// @Summary Get or update timer settings
// @Description Settings are created with defaults on first access. PUT merges the given fields.
// @Tags settings
// @Accept json
// @Produce json
// @Param body body domain.TimerSettingsPatch false "Fields to change (PUT)"
// @Success 200 {object} domain.TimerSettings
// @Failure 400 {object} map[string]string
// @Router /timer-settings [get]
// @Router /timer-settings [put]
func (s *Server) handleTimerSettings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		ts, err := s.settings.Get(r.Context(), user.ID)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)

	case http.MethodPut:
		var patch domain.TimerSettingsPatch
		if err := parseJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ts, err := s.settings.Update(r.Context(), user.ID, patch)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}
