package adapthttp

import "net/http"

// @Summary Session event stream
// @Description Upgrades to a websocket that receives {"event", "session"} frames for the caller's sessions.
// @Tags events
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /events [get]
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	s.hub.ServeWS(w, r, userFromContext(r.Context()).ID)
}
