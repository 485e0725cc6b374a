package scraper_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/internal/scraper"
)

const board = `<!doctype html>
<html><body>
<table class="flights">
  <thead><tr><th>Route</th><th>Date</th><th>Airline</th><th>Flight</th><th>Status</th><th>Price</th></tr></thead>
  <tbody>
    <tr><td>SYD-MEL</td><td>2025-06-02</td><td>Qantas</td><td>QF401</td><td>Scheduled</td><td>$1,199.50</td></tr>
    <tr><td>SYD-BNE</td><td>2025-06-02</td><td>Virgin Australia</td><td>VA915</td><td>delayed</td><td></td></tr>
    <tr><td>MEL-SYD</td><td>2025-06-02</td><td>Jetstar</td><td>JQ502</td><td>cancelled</td><td>89</td></tr>
    <tr><td colspan="6">Updated every 5 minutes</td></tr>
    <tr><td> SYD-MEL </td><td>2025-06-02</td><td>Rex</td><td>ZL11</td><td>boarding</td></tr>
  </tbody>
</table>
<table class="other"><tbody><tr><td>SYD-XXX</td><td>1</td><td>2</td><td>3</td><td>4</td></tr></tbody></table>
</body></html>`

func query(origin, destination string) domain.Query {
	return domain.Query{Origin: origin, Destination: destination, Start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
}

func newBoardServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestParseBoard(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(board))
	require.NoError(t, err)

	got := scraper.ParseBoard(doc)

	require.Len(t, got, 4)
	assert.Equal(t, "SYD-MEL", got[0].Route)
	assert.Equal(t, "QF401", got[0].FlightNumber)
	assert.Equal(t, "scheduled", got[0].Status)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 1199.5, *got[0].Price, 0.001)
	assert.Nil(t, got[1].Price)
	assert.Equal(t, "Virgin Australia", got[1].Airline)
	assert.Equal(t, "SYD-MEL", got[3].Route, "cell text is trimmed")
	assert.Nil(t, got[3].Price)
}

func TestParseBoard_NonFinitePriceIsNoPrice(t *testing.T) {
	for _, cell := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "$1e400"} {
		t.Run(cell, func(t *testing.T) {
			html := `<table class="flights"><tbody><tr><td>SYD-MEL</td><td>2025-06-02</td>` +
				`<td>Qantas</td><td>QF401</td><td>scheduled</td><td>` + cell + `</td></tr></tbody></table>`
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			require.NoError(t, err)

			got := scraper.ParseBoard(doc)

			require.Len(t, got, 1)
			assert.Nil(t, got[0].Price)
			_, err = json.Marshal(got)
			assert.NoError(t, err)
		})
	}
}

func TestParseBoard_NoTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p>maintenance</p>`))
	require.NoError(t, err)

	assert.Empty(t, scraper.ParseBoard(doc))
}

func TestScraper_Flights_FiltersByRoute(t *testing.T) {
	srv, last := newBoardServer(t, http.StatusOK, board)
	s := scraper.New(srv.URL+"/departures?lang=en", srv.Client())

	got, err := s.Flights(context.Background(), query("SYD", "MEL"))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "QF401", got[0].FlightNumber)
	assert.Equal(t, "ZL11", got[1].FlightNumber)
	assert.Equal(t, "SYD", last.Get("origin"))
	assert.Equal(t, "MEL", last.Get("destination"))
	assert.Equal(t, "2025-06-02", last.Get("date"))
	assert.Equal(t, "en", last.Get("lang"), "existing query parameters are kept")
}

func TestScraper_Flights_AnyDestination(t *testing.T) {
	srv, _ := newBoardServer(t, http.StatusOK, board)

	got, err := scraper.New(srv.URL, srv.Client()).Flights(context.Background(), query("syd", ""))

	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestScraper_Flights_NonOK(t *testing.T) {
	srv, _ := newBoardServer(t, http.StatusServiceUnavailable, "down")

	_, err := scraper.New(srv.URL, srv.Client()).Flights(context.Background(), query("SYD", ""))

	assert.ErrorIs(t, err, domain.ErrUpstream)
}
