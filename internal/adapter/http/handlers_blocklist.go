package adapthttp

import (
	"net/http"
)

// @Summary List or add blocked sites
// @Tags blocklist
// @Accept json
// @Produce json
// @Param body body object false "{\"domain\": \"example.com\"} (POST)"
// @Success 200 {array} domain.BlockedSite
// @Success 201 {object} domain.BlockedSite
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /blocklist [get]
// @Router /blocklist [post]
func (s *Server) handleBlocklist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		sites, err := s.blocklist.List(r.Context(), user.ID)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sites)

	case http.MethodPost:
		var body struct {
			Domain string `json:"domain"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		site, err := s.blocklist.Add(r.Context(), user.ID, body.Domain)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, site)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// @Summary Remove a blocked site
// @Tags blocklist
// @Produce json
// @Param id path int true "Blocked site ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /blocklist/{id} [delete]
func (s *Server) handleBlockedSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	user := userFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.blocklist.Remove(r.Context(), user.ID, id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
