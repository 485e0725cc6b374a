// Package handler implements the HTTP surface of the flight insights server:
// the JSON/CSV insights API, the server-rendered dashboard page and its live
// WebSocket channel. All handlers are methods on Server and share its
// dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/pkordes/flight-dashboard/internal/dashboard"
	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/internal/service"
)

// InsightsServicer is the business operation behind GET /api/data.
// Defined here, in the consumer package, so tests can inject a mock.
type InsightsServicer interface {
	Insights(ctx context.Context, q domain.Query) (service.Result, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	insights       InsightsServicer
	fetcher        dashboard.Fetcher
	dashboardOpts  []dashboard.Option
	allowedOrigins []string
	openAPI        []byte
	logger         *slog.Logger
	upgrader       websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithDashboardOptions passes opts to every dashboard controller the server creates.
func WithDashboardOptions(opts ...dashboard.Option) Option {
	return func(s *Server) { s.dashboardOpts = append(s.dashboardOpts, opts...) }
}

// WithAllowedOrigins lists cross-origin pages allowed to open the live
// dashboard socket. Same-host pages are always allowed.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithOpenAPI sets the document served at /openapi.yaml.
func WithOpenAPI(doc []byte) Option {
	return func(s *Server) { s.openAPI = doc }
}

// WithLogger sets the server logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer constructs the Server. insights answers the API; fetcher is how
// dashboard pages load their data.
func NewServer(insights InsightsServicer, fetcher dashboard.Fetcher, opts ...Option) *Server {
	s := &Server{
		insights: insights,
		fetcher:  fetcher,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.GetDashboard)
	r.Get("/api/data", s.GetData)
	r.Get("/dashboard/ws", s.LiveDashboard)
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}
