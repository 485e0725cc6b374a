package handler

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/pkordes/flight-dashboard/internal/dashboard"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Origin      string
	Destination string
	State       dashboard.Snapshot

	ChartsID    string
	BarChartID  string
	LineChartID string
	TableID     string
	NoticeID    string
	NoticeClass string
}

// GetDashboard handles GET /?origin=&destination=.
//
// The page-load refresh runs on the server before anything is written, so
// the page arrives with charts, table and notice already drawn. The browser
// then opens /dashboard/ws for searches.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")

	board := dashboard.NewBoard()
	board.SetInputs(origin, destination)
	dashboard.NewController(s.fetcher, board.Targets(), s.controllerOpts()...).FetchAndRender(r.Context())

	data := pageData{
		Origin:      origin,
		Destination: destination,
		State:       board.Snapshot(),
		ChartsID:    dashboard.ChartsID,
		BarChartID:  dashboard.BarChartID,
		LineChartID: dashboard.LineChartID,
		TableID:     dashboard.TableID,
		NoticeID:    dashboard.NoticeID,
		NoticeClass: dashboard.NoticeClass,
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering dashboard page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// controllerOpts are the dashboard options every controller gets: the
// server's configured ones plus its logger.
func (s *Server) controllerOpts() []dashboard.Option {
	return append([]dashboard.Option{dashboard.WithLogger(s.logger)}, s.dashboardOpts...)
}
