package adapthttp

import (
	"net/http"

	"healthvault/internal/app"
	"healthvault/internal/metrics"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	imports       *app.ImportService
	metricSvc     *app.MetricService
	charts        *app.ChartsService
	authSvc       *app.AuthService
	aggregateDays int
	oidcConfig    OIDCConfig
	disableAuth   bool
}

// New creates a Server wired to the given application services.
// aggregateDays is the default aggregation window applied to bulk imports
// when the request does not override it.
func New(is *app.ImportService, ms *app.MetricService, cs *app.ChartsService, as *app.AuthService, aggregateDays int, oidcConfig OIDCConfig) *Server {
	return &Server{
		imports:       is,
		metricSvc:     ms,
		charts:        cs,
		authSvc:       as,
		aggregateDays: aggregateDays,
		oidcConfig:    oidcConfig,
	}
}

// WithoutAuth disables authentication checks; used by tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/setup", s.handleSetupUser)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	protected := http.NewServeMux()
	protected.HandleFunc("/import/export", s.handleImportExport)
	protected.HandleFunc("/import/webhook", s.handleImportWebhook)
	protected.HandleFunc("/metrics", s.handleMetrics)
	protected.HandleFunc("/metrics/delete", s.handleMetricDelete)
	protected.HandleFunc("/charts/daily", s.handleChartsDaily)
	api.Handle("/", s.authMiddleware(protected))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/metrics", metrics.Handler())

	return s.requestIDMiddleware(s.loggingMiddleware(withNoCache(root)))
}
