// Package analysis turns a list of flights into dashboard insights.
package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

const (
	topRoutesLimit    = 5
	demandSpikesLimit = 5
	weekdayLimit      = 3
)

// Analyze computes the insights for flights.
//
//   - TopRoutes: the 5 most frequent routes, most frequent first.
//   - PriceTrends: mean price per date, ordered by date. When no flight has a
//     price, the number of flights per date is used instead.
//   - DemandSpikes: the 5 dates with the most flights.
//   - HighDemandPeriods: the 3 weekdays with the most flights. Dates that do
//     not parse are ignored.
//   - TableData: the flights themselves, in input order.
//
// Ties are broken by first appearance in flights. Empty input yields empty,
// non-nil collections.
func Analyze(flights []domain.Flight) domain.Insights {
	out := domain.Insights{
		TopRoutes:         []domain.Point{},
		PriceTrends:       []domain.Point{},
		DemandSpikes:      []domain.Point{},
		HighDemandPeriods: []domain.Point{},
		TableData:         []domain.Flight{},
	}
	if len(flights) == 0 {
		return out
	}

	routes := newCounter()
	dates := newCounter()
	weekdays := newCounter()
	for _, f := range flights {
		routes.add(f.Route)
		dates.add(f.DateTime)
		if t, ok := parseDate(f.DateTime); ok {
			weekdays.add(t.Weekday().String())
		}
	}

	out.TopRoutes = routes.top(topRoutesLimit)
	out.PriceTrends = priceTrends(flights, dates)
	out.DemandSpikes = dates.top(demandSpikesLimit)
	out.HighDemandPeriods = weekdays.top(weekdayLimit)
	out.TableData = slices.Clone(flights)
	return out
}

// priceTrends averages prices per date. Dates whose flights carry no price
// are left out. Without any price at all it falls back to flights per date.
func priceTrends(flights []domain.Flight, dates *counter) []domain.Point {
	type acc struct {
		sum float64
		n   int
	}
	byDate := make(map[string]*acc)
	for _, f := range flights {
		if f.Price == nil {
			continue
		}
		a, ok := byDate[f.DateTime]
		if !ok {
			a = &acc{}
			byDate[f.DateTime] = a
		}
		a.sum += *f.Price
		a.n++
	}

	if len(byDate) == 0 {
		return dates.byLabel()
	}

	out := make([]domain.Point, 0, len(byDate))
	for date, a := range byDate {
		out = append(out, domain.Point{Label: date, Value: a.sum / float64(a.n)})
	}
	slices.SortFunc(out, func(a, b domain.Point) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

// dateLayouts are tried in order when deriving a weekday.
var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
