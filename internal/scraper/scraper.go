// Package scraper reads flights from an HTML departures board.
//
// The board is expected to carry a table.flights whose body rows hold, in
// order: route ("SYD-MEL"), date, airline, flight number, status and an
// optional price.
package scraper

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

const rowSelector = "table.flights tbody tr"

// Scraper fetches and parses a departures board page.
type Scraper struct {
	pageURL string
	client  *http.Client
}

// New returns a scraper for the board at pageURL. A nil client gets a 20
// second timeout.
func New(pageURL string, client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{pageURL: pageURL, client: client}
}

// Flights fetches the board for q and returns the rows departing q.Origin
// (and arriving at q.Destination, when set), in page order.
func (s *Scraper) Flights(ctx context.Context, q domain.Query) ([]domain.Flight, error) {
	u, err := url.Parse(s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("scraper.Scraper.Flights: parse url: %w", err)
	}
	params := u.Query()
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("date", q.Day())
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("scraper.Scraper.Flights: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper.Scraper.Flights: %w: %w", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper.Scraper.Flights: %w: status %d", domain.ErrUpstream, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("scraper.Scraper.Flights: %w: parse html: %w", domain.ErrUpstream, err)
	}

	flights := ParseBoard(doc)
	out := flights[:0]
	for _, f := range flights {
		if matches(f.Route, q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ParseBoard extracts every well-formed row of the board. Rows with fewer
// than five cells are skipped.
func ParseBoard(doc *goquery.Document) []domain.Flight {
	flights := []domain.Flight{}
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if len(cells) < 5 {
			return
		}

		f := domain.Flight{
			Route:        cells[0],
			DateTime:     cells[1],
			Airline:      cells[2],
			FlightNumber: cells[3],
			Status:       strings.ToLower(cells[4]),
		}
		if len(cells) > 5 {
			f.Price = parsePrice(cells[5])
		}
		flights = append(flights, f)
	})
	return flights
}

// parsePrice reads "$1,234.50"-style amounts. Anything else is no price,
// including NaN and infinities, which JSON cannot carry.
func parsePrice(s string) *float64 {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func matches(route string, q domain.Query) bool {
	dep, arr, _ := strings.Cut(route, "-")
	if !strings.EqualFold(dep, q.Origin) {
		return false
	}
	return q.Destination == "" || strings.EqualFold(arr, q.Destination)
}
