package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/flight-dashboard/internal/dashboard"
	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/internal/handler"
	"github.com/pkordes/flight-dashboard/internal/service"
)

// mockInsights is a hand-written test double for handler.InsightsServicer.
type mockInsights struct {
	insights func(ctx context.Context, q domain.Query) (service.Result, error)
}

func (m *mockInsights) Insights(ctx context.Context, q domain.Query) (service.Result, error) {
	return m.insights(ctx, q)
}

// mockFetcher is a hand-written test double for dashboard.Fetcher.
type mockFetcher struct {
	fetch func(ctx context.Context, sel domain.Selection) (domain.Insights, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, sel domain.Selection) (domain.Insights, error) {
	return m.fetch(ctx, sel)
}

// compile-time checks: the mocks must satisfy the interfaces they stand in for.
var (
	_ handler.InsightsServicer = (*mockInsights)(nil)
	_ dashboard.Fetcher        = (*mockFetcher)(nil)
)

// ---- helpers ----------------------------------------------------------------

func newRouter(s *handler.Server) http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleInsights() domain.Insights {
	return domain.Insights{
		TopRoutes:         []domain.Point{{Label: "NYC-LAX", Value: 12}, {Label: "SFO-ORD", Value: 7}},
		PriceTrends:       []domain.Point{{Label: "2025-06-02", Value: 199.5}},
		DemandSpikes:      []domain.Point{{Label: "2025-06-02", Value: 19}},
		HighDemandPeriods: []domain.Point{{Label: "Monday", Value: 19}},
		TableData: []domain.Flight{
			{Route: "NYC-LAX", DateTime: "2025-06-02", Airline: "Delta", FlightNumber: "DL1", Status: "delayed"},
		},
	}
}
