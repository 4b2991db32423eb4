package adapthttp

import (
	"net/http"

	_ "focusflow/docs"
	"focusflow/internal/adapter/ws"
	"focusflow/internal/app"
	"focusflow/internal/domain"

	"github.com/charmbracelet/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Sessions  *app.SessionService
	Stats     *app.StatsService
	Settings  *app.SettingsService
	Blocklist *app.BlocklistService
	Auth      *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	sessions     *app.SessionService
	stats        *app.StatsService
	settings     *app.SettingsService
	blocklist    *app.BlocklistService
	authSvc      *app.AuthService
	hub          *ws.Hub
	oidcConfig   *OIDCConfig
	logger       *log.Logger
	webDir       string
	cookieSecure bool
	forwardAuth  bool
	disableAuth  bool
}

// New creates a Server wired to the given application services. hub may be
// nil, in which case /api/events is not served.
func New(svc Services, hub *ws.Hub, logger *log.Logger, webDir string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		sessions:   svc.Sessions,
		stats:      svc.Stats,
		settings:   svc.Settings,
		blocklist:  svc.Blocklist,
		authSvc:    svc.Auth,
		hub:        hub,
		oidcConfig: &OIDCConfig{},
		logger:     logger,
		webDir:     webDir,
	}
}

// WithOIDC enables single sign-on through the given provider configuration.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithSecureCookies marks session cookies Secure even behind a TLS-terminating proxy.
func (s *Server) WithSecureCookies(secure bool) *Server {
	s.cookieSecure = secure
	return s
}

// WithForwardAuth trusts the Remote-User header set by an authenticating
// reverse proxy.
func (s *Server) WithForwardAuth(enabled bool) *Server {
	s.forwardAuth = enabled
	return s
}

// WithoutAuth disables authentication and runs every request as a fixed
// development user (for tests).
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// devUser is the principal used when authentication is disabled.
var devUser = &domain.User{ID: 1, Username: "dev", Name: "dev"}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protect := func(pattern string, h http.HandlerFunc) {
		api.Handle(pattern, s.authMiddleware(h))
	}
	protect("/auth/me", s.handleMe)

	protect("/sessions", s.handleSessions)
	protect("/sessions/today", s.handleSessionsToday)
	protect("/sessions/stats", s.handleSessionsStats)
	protect("/sessions/{id}", s.handleSession)
	protect("/sessions/{id}/blocked-hit", s.handleBlockedHit)

	protect("/timer-settings", s.handleTimerSettings)

	protect("/blocklist", s.handleBlocklist)
	protect("/blocklist/{id}", s.handleBlockedSite)

	if s.hub != nil {
		protect("/events", s.handleEvents)
	}

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
