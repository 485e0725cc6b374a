package dashboard

import "github.com/pkordes/flight-dashboard/internal/domain"

// Render target identifiers on the dashboard page.
const (
	BarChartID  = "bar-chart"
	LineChartID = "line-chart"
	TableID     = "data-table"
	NoticeID    = "no-data-msg"
	ChartsID    = "charts"
)

// Chart titles.
const (
	BarChartTitle  = "Top 5 Popular Routes"
	LineChartTitle = "Average Price Trends"
)

// ChartRenderer draws one series into the chart container named containerID,
// replacing whatever the container showed before.
type ChartRenderer interface {
	RenderSeries(containerID string, points []domain.Point, style SeriesStyle)
}

// RenderBarChart plots route counts as bars. Points are drawn in the order
// given; the backend already picks and orders the top routes.
func RenderBarChart(r ChartRenderer, points []domain.Point) {
	if len(points) == 0 {
		r.RenderSeries(BarChartID, points, emptyBarStyle())
		return
	}
	r.RenderSeries(BarChartID, points, barStyle())
}

// RenderLineChart plots price trends as a line with markers.
func RenderLineChart(r ChartRenderer, points []domain.Point) {
	if len(points) == 0 {
		r.RenderSeries(LineChartID, points, emptyLineStyle())
		return
	}
	r.RenderSeries(LineChartID, points, lineStyle())
}

func barStyle() SeriesStyle {
	return SeriesStyle{
		Type:  "bar",
		Title: BarChartTitle,
		Marker: &Marker{
			Color: "#0ea5e9",
			Line:  &Line{Color: "#0284c7", Width: 1},
		},
	}
}

func emptyBarStyle() SeriesStyle {
	return SeriesStyle{
		Type:   "bar",
		Title:  BarChartTitle,
		Marker: &Marker{Color: "#0ea5e9"},
	}
}

func lineStyle() SeriesStyle {
	return SeriesStyle{
		Type:  "scatter",
		Mode:  "lines+markers",
		Title: LineChartTitle,
		Line:  &Line{Color: "#6366f1", Width: 3},
		Marker: &Marker{
			Color: "#6366f1",
			Size:  8,
			Line:  &Line{Color: "#4f46e5", Width: 2},
		},
	}
}

func emptyLineStyle() SeriesStyle {
	return SeriesStyle{
		Type:   "scatter",
		Mode:   "lines+markers",
		Title:  LineChartTitle,
		Line:   &Line{Color: "#6366f1"},
		Marker: &Marker{Color: "#6366f1"},
	}
}
