package dashboard

import "github.com/pkordes/flight-dashboard/internal/domain"

// Figure is a Plotly figure: a list of traces plus a layout. It is handed to
// plotly.js (Plotly.newPlot) in the browser unchanged, so the JSON field names
// follow Plotly's attribute names.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly series.
type Trace struct {
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Type   string    `json:"type"`
	Mode   string    `json:"mode,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
	Line   *Line     `json:"line,omitempty"`
}

// Marker styles bars and scatter markers.
type Marker struct {
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
	Line  *Line  `json:"line,omitempty"`
}

// Line styles a scatter line or a marker outline.
type Line struct {
	Color string `json:"color"`
	Width int    `json:"width,omitempty"`
}

// Layout is the subset of Plotly layout attributes the dashboard sets.
type Layout struct {
	Title        string `json:"title"`
	Font         Font   `json:"font"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Margin       Margin `json:"margin"`
}

// Font is a Plotly font description.
type Font struct {
	Family string `json:"family"`
}

// Margin holds plot margins in pixels.
type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

// SeriesStyle is everything about a chart that does not come from the data:
// the series type and its colors, plus the chart title.
type SeriesStyle struct {
	Type   string // "bar" or "scatter"
	Mode   string // scatter only, e.g. "lines+markers"
	Title  string
	Marker *Marker
	Line   *Line
}

// NewFigure lays points out as a single series: labels on the x axis and
// values on the y axis, in input order. Empty input yields empty (non-nil)
// axes with the same layout, so the chart is drawn blank instead of missing.
func NewFigure(points []domain.Point, style SeriesStyle) Figure {
	x := make([]string, 0, len(points))
	y := make([]float64, 0, len(points))
	for _, p := range points {
		x = append(x, p.Label)
		y = append(y, p.Value)
	}

	return Figure{
		Data: []Trace{{
			X:      x,
			Y:      y,
			Type:   style.Type,
			Mode:   style.Mode,
			Marker: style.Marker,
			Line:   style.Line,
		}},
		Layout: Layout{
			Title:        style.Title,
			Font:         Font{Family: "Inter, sans-serif"},
			PlotBGColor:  "rgba(0,0,0,0)",
			PaperBGColor: "rgba(0,0,0,0)",
			Margin:       Margin{T: 40, B: 40, L: 60, R: 20},
		},
	}
}
