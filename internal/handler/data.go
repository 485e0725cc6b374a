package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"github.com/jszwec/csvutil"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// dataParams are the query parameters of GET /api/data. Optional parameters
// are pointers so "absent" and "empty" stay distinguishable.
type dataParams struct {
	Origin      *string
	Destination *string
	Start       *openapi_types.Date
	Format      *string
}

// GetData handles GET /api/data?origin=&destination=&start=[&format=csv].
//
// origin defaults to SYD and destination to empty; start is required.
// Provider failures do not fail the request: the body is then an analysis
// of stored data, or an empty one.
func (s *Server) GetData(w http.ResponseWriter, r *http.Request) {
	params, msg := bindDataParams(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	q := domain.Query{
		Origin:      deref(params.Origin, domain.DefaultOrigin),
		Destination: deref(params.Destination, ""),
		Start:       params.Start.Time,
	}

	res, err := s.insights.Insights(r.Context(), q)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "insights failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("X-Insights-Source", res.From)

	if deref(params.Format, formatJSON) == formatCSV {
		s.writeFlightsCSV(w, r, res.TableData)
		return
	}
	writeJSON(w, http.StatusOK, res.Insights)
}

// bindDataParams returns the bound parameters, or the client-facing message
// describing the first parameter that is missing or malformed.
func bindDataParams(r *http.Request) (dataParams, string) {
	var p dataParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "origin", query, &p.Origin); err != nil {
		return p, "Invalid origin"
	}
	if err := runtime.BindQueryParameter("form", true, false, "destination", query, &p.Destination); err != nil {
		return p, "Invalid destination"
	}

	// An empty start counts as missing, like an absent one.
	if query.Get("start") == "" {
		return p, "Missing start date"
	}
	if err := runtime.BindQueryParameter("form", true, false, "start", query, &p.Start); err != nil || p.Start == nil {
		return p, "Invalid start date"
	}

	if err := runtime.BindQueryParameter("form", true, false, "format", query, &p.Format); err != nil {
		return p, "Invalid format"
	}
	if p.Format != nil && *p.Format != formatJSON && *p.Format != formatCSV {
		return p, "Invalid format"
	}
	return p, ""
}

// writeFlightsCSV writes one CSV row per flight under a header row. The
// header is written even when there are no flights.
func (s *Server) writeFlightsCSV(w http.ResponseWriter, r *http.Request, flights []domain.Flight) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(cw)

	err := enc.EncodeHeader(domain.Flight{})
	for i := 0; err == nil && i < len(flights); i++ {
		err = enc.Encode(flights[i])
	}
	if err == nil {
		cw.Flush()
		err = cw.Error()
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "encoding csv failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flights.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
