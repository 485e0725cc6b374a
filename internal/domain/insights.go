package domain

import (
	"encoding/json"
	"fmt"
)

// Point is one (label, value) pair of a chart series, e.g. a route and its
// flight count or a date and its average price.
// On the wire it is a two-element JSON array: ["SYD-MEL", 12].
type Point struct {
	Label string
	Value float64
}

// MarshalJSON encodes the point as [label, value].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Label, p.Value})
}

// UnmarshalJSON decodes a [label, value] array. A label that is not a JSON
// string (a bare number, for instance) is kept in its literal JSON form.
func (p *Point) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("point: want 2 elements, got %d", len(raw))
	}

	var label string
	if err := json.Unmarshal(raw[0], &label); err != nil {
		label = string(raw[0])
	}
	var value float64
	if err := json.Unmarshal(raw[1], &value); err != nil {
		return fmt.Errorf("point: value: %w", err)
	}

	p.Label, p.Value = label, value
	return nil
}

// Insights is the payload served by GET /api/data and consumed by the dashboard.
// Any field may be absent (nil) when decoded from a third-party backend; the
// analysis package always fills every field with a non-nil slice.
type Insights struct {
	TopRoutes         []Point  `json:"top_routes"`
	PriceTrends       []Point  `json:"price_trends"`
	DemandSpikes      []Point  `json:"demand_spikes"`
	HighDemandPeriods []Point  `json:"high_demand_periods"`
	TableData         []Flight `json:"table_data"`
}

// IsEmpty reports whether there is nothing the dashboard could render:
// top routes, price trends and table data are all absent or zero-length.
// Demand spikes and high-demand periods are not displayed and do not count.
func (i Insights) IsEmpty() bool {
	return len(i.TopRoutes) == 0 && len(i.PriceTrends) == 0 && len(i.TableData) == 0
}
